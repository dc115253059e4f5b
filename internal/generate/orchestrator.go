package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmorgan81/imagecrafter/internal/config"
	"github.com/dmorgan81/imagecrafter/internal/credential"
	"github.com/dmorgan81/imagecrafter/internal/image"
	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/dmorgan81/imagecrafter/internal/prompt"
	"github.com/dmorgan81/imagecrafter/internal/style"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxParallel = 4

type Request struct {
	Prompt     string
	Styles     []string
	Count      int
	Credential string
}

type Image struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
	URL    string `json:"url"`
}

// Failure records one failed call of a best-effort batch.
type Failure struct {
	Index int
	Style string
	Err   *image.ProviderError
}

type Result struct {
	Images   []Image
	Failures []Failure
}

type Options struct {
	// Credentials is read once per batch when the request carries no credential.
	Credentials credential.Source
	Randomizer  *prompt.Randomizer
	// MaxParallel bounds in-flight provider calls; 1 dispatches sequentially.
	MaxParallel int
	// MaxCount rejects larger batches when positive.
	MaxCount int
	NewID    func() string
}

type Orchestrator struct {
	provider image.Provider
	opts     Options
	tracer   trace.Tracer
}

func New(provider image.Provider, opts Options) *Orchestrator {
	if opts.Randomizer == nil {
		opts.Randomizer = prompt.NewRandomizer(nil)
	}
	if opts.MaxParallel < 1 {
		opts.MaxParallel = DefaultMaxParallel
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Orchestrator{
		provider: provider,
		opts:     opts,
		tracer:   otel.Tracer("github.com/dmorgan81/imagecrafter/internal/generate"),
	}
}

func NewOrchestrator(i *do.Injector) (*Orchestrator, error) {
	cfg := do.MustInvoke[config.Config](i)
	return New(do.MustInvoke[image.Provider](i), Options{
		Credentials: do.MustInvoke[*credential.Holder](i),
		Randomizer:  do.MustInvoke[*prompt.Randomizer](i),
		MaxParallel: cfg.MaxParallel,
		MaxCount:    cfg.MaxImageCount,
	}), nil
}

// batch is a validated request with its credential snapshot and per-position styles.
type batch struct {
	prompt     string
	credential string
	styles     []string
}

// Generate produces exactly req.Count images or fails. The first provider
// failure cancels the rest of the batch and no images are returned.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]Image, error) {
	b, err := o.prepare(req)
	if err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "generate.Generate", trace.WithAttributes(
		attribute.Int("count", req.Count),
		attribute.StringSlice("styles", req.Styles),
	))
	defer span.End()

	log := log.FromContextOrDiscard(ctx).WithGroup("Orchestrator").With("count", req.Count, "styles", req.Styles)
	log.Info("generating batch")

	images, failures, before, err := o.dispatch(ctx, b, true)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Warn("batch failed", "error", err)
		return nil, err
	}
	if len(failures) > 0 {
		f := failures[0]
		err := &Error{
			Kind:      KindPartialGenerationFailure,
			Message:   fmt.Sprintf("%d of %d images generated before call %d failed", before, req.Count, f.Index+1),
			Succeeded: before,
			Err:       f.Err,
		}
		span.SetStatus(codes.Error, err.Error())
		log.Warn("batch aborted", "succeeded", err.Succeeded, "index", f.Index, "error", f.Err)
		return nil, err
	}

	log.Info("batch generated")
	return images, nil
}

// GenerateBestEffort returns every image that succeeded alongside the failed
// positions. Only validation and cancellation fail the call.
func (o *Orchestrator) GenerateBestEffort(ctx context.Context, req Request) (Result, error) {
	b, err := o.prepare(req)
	if err != nil {
		return Result{}, err
	}

	ctx, span := o.tracer.Start(ctx, "generate.GenerateBestEffort", trace.WithAttributes(
		attribute.Int("count", req.Count),
		attribute.StringSlice("styles", req.Styles),
	))
	defer span.End()

	log := log.FromContextOrDiscard(ctx).WithGroup("Orchestrator").With("count", req.Count, "styles", req.Styles)
	log.Info("generating best-effort batch")

	images, failures, _, err := o.dispatch(ctx, b, false)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	span.SetAttributes(attribute.Int("failed", len(failures)))
	log.Info("best-effort batch generated", "succeeded", len(images), "failed", len(failures))
	return Result{Images: images, Failures: failures}, nil
}

// prepare validates before any provider call and snapshots the credential exactly once.
func (o *Orchestrator) prepare(req Request) (batch, error) {
	cred := req.Credential
	if strings.TrimSpace(cred) == "" && o.opts.Credentials != nil {
		cred, _ = o.opts.Credentials.Get()
	}
	if strings.TrimSpace(cred) == "" {
		return batch{}, newError(KindMissingCredential, "no provider credential set")
	}

	if err := style.Validate(req.Styles); err != nil {
		return batch{}, &Error{Kind: KindInvalidStyleSelection, Err: err}
	}

	if req.Count <= 0 {
		return batch{}, newError(KindInvalidCount, "count must be positive, got %d", req.Count)
	}
	if o.opts.MaxCount > 0 && req.Count > o.opts.MaxCount {
		return batch{}, newError(KindInvalidCount, "count must be at most %d, got %d", o.opts.MaxCount, req.Count)
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return batch{}, newError(KindInvalidPrompt, "prompt is empty")
	}

	return batch{
		prompt:     req.Prompt,
		credential: cred,
		styles:     o.opts.Randomizer.Assign(lo.Uniq(req.Styles), req.Count),
	}, nil
}

// dispatch issues one provider call per position. With abort set, the first
// failure cancels the calls not yet issued and before reports how many calls
// had succeeded when it was observed. Images keep their dispatch position
// regardless of completion order.
func (o *Orchestrator) dispatch(ctx context.Context, b batch, abort bool) (images []Image, failures []Failure, before int, err error) {
	n := len(b.styles)
	results := make([]*Image, n)
	errs := make([]*image.ProviderError, n)

	var (
		succeeded atomic.Int64
		once      sync.Once
		first     = -1
	)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(o.opts.MaxParallel)
	for i, s := range b.styles {
		i, s := i, s
		group.Go(func() error {
			if abort && gctx.Err() != nil {
				return nil
			}
			url, perr := o.request(gctx, i, s, b)
			if perr != nil {
				errs[i] = perr
				if !abort {
					return nil
				}
				once.Do(func() {
					before = int(succeeded.Load())
					first = i
				})
				return perr
			}
			succeeded.Add(1)
			results[i] = &Image{
				ID:     o.opts.NewID(),
				Prompt: b.prompt,
				Style:  s,
				URL:    url,
			}
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, &Error{Kind: KindCanceled, Message: "caller abandoned the batch", Err: err}
	}

	if first >= 0 {
		return nil, []Failure{{Index: first, Style: b.styles[first], Err: errs[first]}}, before, nil
	}

	for i := range results {
		if errs[i] != nil {
			failures = append(failures, Failure{Index: i, Style: b.styles[i], Err: errs[i]})
			continue
		}
		images = append(images, *results[i])
	}
	return images, failures, len(images), nil
}

func (o *Orchestrator) request(ctx context.Context, index int, s string, b batch) (string, *image.ProviderError) {
	ctx, span := o.tracer.Start(ctx, "provider.RequestImage", trace.WithAttributes(
		attribute.Int("index", index),
		attribute.String("style", s),
	))
	defer span.End()

	url, err := o.provider.RequestImage(ctx, prompt.Render(s, b.prompt), b.credential)
	if err != nil {
		var perr *image.ProviderError
		if !errors.As(err, &perr) {
			perr = &image.ProviderError{Provider: "provider", Err: err}
		}
		span.RecordError(perr)
		span.SetStatus(codes.Error, perr.Error())
		log.FromContextOrDiscard(ctx).Debug("provider call failed", "index", index, "style", s, "error", perr)
		return "", perr
	}
	if url == "" {
		perr := &image.ProviderError{Provider: "provider", Message: "empty image payload"}
		span.SetStatus(codes.Error, perr.Error())
		return "", perr
	}
	return url, nil
}
