package inject

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/imagecrafter/internal/config"
	"github.com/dmorgan81/imagecrafter/internal/credential"
	"github.com/dmorgan81/imagecrafter/internal/generate"
	"github.com/dmorgan81/imagecrafter/internal/handler"
	"github.com/dmorgan81/imagecrafter/internal/image"
	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/dmorgan81/imagecrafter/internal/param"
	"github.com/dmorgan81/imagecrafter/internal/prompt"
	"github.com/samber/do"
)

func Setup(ctx context.Context, cfg config.Config) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})
	do.ProvideValue[context.Context](injector, ctx)
	do.ProvideValue[config.Config](injector, cfg)

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, &http.Client{Timeout: cfg.ProviderTimeout})

	do.Provide[param.Fetcher](injector, param.NewParameterStoreFetcher)
	do.Provide[*credential.Holder](injector, credential.NewHolder)
	do.ProvideValue[*prompt.Randomizer](injector, prompt.NewRandomizer(nil))

	switch cfg.Provider {
	case config.ProviderDezgo:
		do.Provide[image.Provider](injector, image.NewDezgoProvider)
	case config.ProviderPlaceholder:
		do.ProvideValue[image.Provider](injector, image.PlaceholderProvider{})
	default:
		do.Provide[image.Provider](injector, image.NewGeminiProvider)
	}

	do.Provide[*generate.Orchestrator](injector, generate.NewOrchestrator)
	do.Provide[*handler.GenerateHandler](injector, handler.NewGenerateHandler)
	do.ProvideValue[handler.StylesHandler](injector, handler.StylesHandler{})

	return injector
}
