package handler

import (
	"context"
	"strings"

	"github.com/dmorgan81/imagecrafter/internal/config"
	"github.com/dmorgan81/imagecrafter/internal/credential"
	"github.com/dmorgan81/imagecrafter/internal/generate"
	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/samber/do"
	"github.com/samber/lo"
)

type Input struct {
	Prompt     string   `json:"prompt"`
	Styles     []string `json:"styles"`
	Count      int      `json:"count"`
	Credential string   `json:"credential,omitempty"`
}

type Failure struct {
	Index   int    `json:"index"`
	Style   string `json:"style"`
	Message string `json:"message"`
}

type Output struct {
	Images   []generate.Image `json:"images"`
	Failures []Failure        `json:"failures,omitempty"`
}

// Generator is the part of the orchestrator the handler drives.
type Generator interface {
	Generate(context.Context, generate.Request) ([]generate.Image, error)
	GenerateBestEffort(context.Context, generate.Request) (generate.Result, error)
}

type GenerateHandler struct {
	generator  Generator
	holder     *credential.Holder
	bestEffort bool
}

func NewGenerateHandler(i *do.Injector) (*GenerateHandler, error) {
	cfg := do.MustInvoke[config.Config](i)
	return &GenerateHandler{
		generator:  do.MustInvoke[*generate.Orchestrator](i),
		holder:     do.MustInvoke[*credential.Holder](i),
		bestEffort: cfg.FailurePolicy == config.PolicyBestEffort,
	}, nil
}

func (h *GenerateHandler) Handle(ctx context.Context, input Input) (Output, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("GenerateHandler").With(
		"prompt", input.Prompt,
		"styles", input.Styles,
		"count", input.Count,
		"bestEffort", h.bestEffort,
	)
	log.Info("handling lambda invocation")

	if strings.TrimSpace(input.Credential) != "" {
		log.Info("storing provided credential")
		h.holder.Set(input.Credential)
	}
	cred, _ := h.holder.Get()

	req := generate.Request{
		Prompt:     input.Prompt,
		Styles:     input.Styles,
		Count:      input.Count,
		Credential: cred,
	}

	if !h.bestEffort {
		images, err := h.generator.Generate(ctx, req)
		if err != nil {
			return Output{}, err
		}
		return Output{Images: images}, nil
	}

	result, err := h.generator.GenerateBestEffort(ctx, req)
	if err != nil {
		return Output{}, err
	}
	failures := lo.Map(result.Failures, func(f generate.Failure, _ int) Failure {
		return Failure{Index: f.Index, Style: f.Style, Message: f.Err.Error()}
	})
	log.Info("best-effort batch handled", "failed", len(failures))
	return Output{
		Images:   lo.Ternary(result.Images != nil, result.Images, []generate.Image{}),
		Failures: failures,
	}, nil
}
