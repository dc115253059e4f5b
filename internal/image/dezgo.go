package image

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dmorgan81/imagecrafter/internal/config"
	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/samber/do"
)

const dezgo = "dezgo"

type dezgoParams struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type DezgoProvider struct {
	Client *http.Client
	URL    string
	Model  string
}

func NewDezgoProvider(i *do.Injector) (Provider, error) {
	cfg := do.MustInvoke[config.Config](i)
	return &DezgoProvider{
		Client: do.MustInvoke[*http.Client](i),
		URL:    cfg.DezgoURL,
		Model:  cfg.DezgoModel,
	}, nil
}

func (p *DezgoProvider) RequestImage(ctx context.Context, prompt, credential string) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("DezgoProvider").With("model", p.Model)
	log.Debug("generating image via dezgo")

	body, err := json.Marshal(dezgoParams{Model: p.Model, Prompt: prompt})
	if err != nil {
		return "", &ProviderError{Provider: dezgo, Message: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Provider: dezgo, Message: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dezgo-Key", credential)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", &ProviderError{Provider: dezgo, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: dezgo, Status: resp.StatusCode, Message: "reading response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProviderError{Provider: dezgo, Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if len(data) == 0 || !strings.HasPrefix(mediaType, "image/") {
		return "", &ProviderError{Provider: dezgo, Status: resp.StatusCode, Message: "response carried no image"}
	}

	log.Debug("received image via dezgo", "seed", resp.Header.Get("x-input-seed"), "bytes", len(data))
	return DataURL(mediaType, data), nil
}
