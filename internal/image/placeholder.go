package image

import (
	"context"
	"net/url"
)

// PlaceholderProvider serves stock photos matching the prompt without calling a model.
type PlaceholderProvider struct{}

func (PlaceholderProvider) RequestImage(ctx context.Context, prompt, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ProviderError{Provider: "placeholder", Err: err}
	}
	return "https://source.unsplash.com/random/600x400?" + url.QueryEscape(prompt), nil
}
