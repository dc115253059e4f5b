package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/dmorgan81/imagecrafter/internal/config"
	"github.com/dmorgan81/imagecrafter/internal/handler"
	"github.com/dmorgan81/imagecrafter/internal/inject"
	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/samber/do"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := log.NewContext(context.Background(), log.New(os.Stderr, cfg.LogLevel))
	injector := inject.Setup(ctx, cfg)

	var h any
	switch cfg.Handler {
	case config.HandlerStyles:
		h = do.MustInvoke[handler.StylesHandler](injector).Handle
	default:
		h = do.MustInvoke[*handler.GenerateHandler](injector).Handle
	}
	lambda.StartWithOptions(h, lambda.WithContext(ctx), lambda.WithEnableSIGTERM(func() {
		_ = injector.Shutdown()
	}))
}
