package image

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmorgan81/imagecrafter/internal/config"
	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/samber/do"
	"github.com/samber/lo"
	"google.golang.org/genai"
)

const gemini = "gemini"

type generateContentFunc func(ctx context.Context, credential, model, prompt string) (*genai.GenerateContentResponse, error)

// GeminiProvider asks a Gemini image model for a TEXT+IMAGE response and keeps the first inline image.
type GeminiProvider struct {
	Model    string
	generate generateContentFunc
}

func NewGeminiProvider(i *do.Injector) (Provider, error) {
	cfg := do.MustInvoke[config.Config](i)
	client := do.MustInvoke[*http.Client](i)
	return &GeminiProvider{
		Model: cfg.GeminiModel,
		generate: func(ctx context.Context, credential, model, prompt string) (*genai.GenerateContentResponse, error) {
			c, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:     credential,
				Backend:    genai.BackendGeminiAPI,
				HTTPClient: client,
			})
			if err != nil {
				return nil, err
			}
			return c.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
				ResponseModalities: []string{"TEXT", "IMAGE"},
			})
		},
	}, nil
}

func (p *GeminiProvider) RequestImage(ctx context.Context, prompt, credential string) (string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("GeminiProvider").With("model", p.Model)
	log.Debug("generating image via gemini")

	resp, err := p.generate(ctx, credential, p.Model, prompt)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &ProviderError{Provider: gemini, Status: apiErr.Code, Message: apiErr.Message, Err: err}
		}
		return "", &ProviderError{Provider: gemini, Err: err}
	}

	url, err := imageFromResponse(resp)
	if err != nil {
		return "", err
	}
	log.Debug("received image via gemini")
	return url, nil
}

// imageFromResponse turns the first inline image part into a data URL.
// Any text the model returned instead becomes the error message.
func imageFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		msg := "response has no candidates"
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
		}
		return "", &ProviderError{Provider: gemini, Message: msg}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", &ProviderError{Provider: gemini, Message: "candidate has no content"}
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return DataURL(part.InlineData.MIMEType, part.InlineData.Data), nil
		}
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	msg := lo.Ternary(len(texts) > 0, strings.Join(texts, " "), "response carried no image")
	return "", &ProviderError{Provider: gemini, Message: msg}
}
