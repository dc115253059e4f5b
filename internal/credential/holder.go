package credential

import (
	"context"
	"sync"

	"github.com/dmorgan81/imagecrafter/internal/config"
	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/dmorgan81/imagecrafter/internal/param"
	"github.com/samber/do"
)

// Source is the read side of a Holder.
type Source interface {
	Get() (string, bool)
}

// Holder keeps the provider credential for the lifetime of the process.
type Holder struct {
	mu    sync.RWMutex
	value string
}

// NewHolder seeds the holder from Parameter Store when a parameter path is
// configured, falling back to the selected provider's key from the environment.
func NewHolder(i *do.Injector) (*Holder, error) {
	cfg := do.MustInvoke[config.Config](i)
	ctx := do.MustInvoke[context.Context](i)
	log := log.FromContextOrDiscard(ctx).WithGroup("Holder")

	h := &Holder{}
	if cfg.CredentialParam != "" {
		v, err := do.MustInvoke[param.Fetcher](i).Fetch(ctx, cfg.CredentialParam)
		if err != nil {
			return nil, err
		}
		h.Set(v)
	} else {
		h.Set(cfg.APIKey())
	}
	_, ok := h.Get()
	log.Info("credential holder ready", "present", ok)
	return h, nil
}

func (h *Holder) Get() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value, h.value != ""
}

func (h *Holder) Set(value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.value = value
}
