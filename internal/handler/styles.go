package handler

import (
	"context"

	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/dmorgan81/imagecrafter/internal/style"
)

type StylesHandler struct{}

func (StylesHandler) Handle(ctx context.Context) ([]style.Descriptor, error) {
	log.FromContextOrDiscard(ctx).WithGroup("StylesHandler").Info("listing styles")
	return style.List(), nil
}
