package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dmorgan81/imagecrafter/internal/log"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/shouni/go-utils/envutil"
)

const (
	ProviderGemini      = "gemini"
	ProviderDezgo       = "dezgo"
	ProviderPlaceholder = "placeholder"

	PolicyAllOrNothing = "all-or-nothing"
	PolicyBestEffort   = "best-effort"

	HandlerGenerate = "generate"
	HandlerStyles   = "styles"
)

const (
	DefaultGeminiModel     = "gemini-2.0-flash-exp-image-generation"
	DefaultDezgoModel      = "epic_diffusion_1_1"
	DefaultDezgoURL        = "https://api.dezgo.com/text2image"
	DefaultMaxParallel     = 4
	DefaultMaxImageCount   = 9
	DefaultProviderTimeout = 60 * time.Second
)

type Config struct {
	Provider        string
	GeminiModel     string
	DezgoModel      string
	DezgoURL        string
	CredentialParam string
	GeminiAPIKey    string
	DezgoAPIKey     string
	MaxParallel     int
	MaxImageCount   int
	FailurePolicy   string
	ProviderTimeout time.Duration
	LogLevel        slog.Level
	Handler         string
}

// Load reads the environment, after merging an optional .env file from the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Provider:        envutil.GetEnv("PROVIDER", ProviderGemini),
		GeminiModel:     envutil.GetEnv("GEMINI_MODEL", DefaultGeminiModel),
		DezgoModel:      envutil.GetEnv("DEZGO_MODEL", DefaultDezgoModel),
		DezgoURL:        envutil.GetEnv("DEZGO_URL", DefaultDezgoURL),
		CredentialParam: envutil.GetEnv("CREDENTIAL_PARAM", ""),
		GeminiAPIKey:    envutil.GetEnv("GEMINI_API_KEY", ""),
		DezgoAPIKey:     envutil.GetEnv("DEZGO_API_KEY", ""),
		FailurePolicy:   envutil.GetEnv("FAILURE_POLICY", PolicyAllOrNothing),
		Handler:         envutil.GetEnv("HANDLER", HandlerGenerate),
	}

	var errs []error
	var err error
	if cfg.MaxParallel, err = intEnv("MAX_PARALLEL", DefaultMaxParallel); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxImageCount, err = intEnv("MAX_IMAGE_COUNT", DefaultMaxImageCount); err != nil {
		errs = append(errs, err)
	}
	if cfg.ProviderTimeout, err = time.ParseDuration(envutil.GetEnv("PROVIDER_TIMEOUT", DefaultProviderTimeout.String())); err != nil {
		errs = append(errs, fmt.Errorf("PROVIDER_TIMEOUT: %w", err))
	}

	level, ok := log.ParseLevel(envutil.GetEnv("LOG_LEVEL", "info"))
	if !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: unknown level %q", envutil.GetEnv("LOG_LEVEL", "")))
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	return cfg, errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error
	if !lo.Contains([]string{ProviderGemini, ProviderDezgo, ProviderPlaceholder}, c.Provider) {
		errs = append(errs, fmt.Errorf("PROVIDER: unknown provider %q", c.Provider))
	}
	if !lo.Contains([]string{PolicyAllOrNothing, PolicyBestEffort}, c.FailurePolicy) {
		errs = append(errs, fmt.Errorf("FAILURE_POLICY: unknown policy %q", c.FailurePolicy))
	}
	if !lo.Contains([]string{HandlerGenerate, HandlerStyles}, c.Handler) {
		errs = append(errs, fmt.Errorf("HANDLER: unknown handler %q", c.Handler))
	}
	if c.MaxParallel < 1 {
		errs = append(errs, fmt.Errorf("MAX_PARALLEL: must be at least 1, got %d", c.MaxParallel))
	}
	if c.MaxImageCount < 0 {
		errs = append(errs, fmt.Errorf("MAX_IMAGE_COUNT: must not be negative, got %d", c.MaxImageCount))
	}
	if c.ProviderTimeout < 0 {
		errs = append(errs, fmt.Errorf("PROVIDER_TIMEOUT: must not be negative, got %s", c.ProviderTimeout))
	}
	return errors.Join(errs...)
}

// APIKey is the environment key for the selected provider. The placeholder
// provider never authenticates but still needs a credential, so it shares Gemini's.
func (c Config) APIKey() string {
	if c.Provider == ProviderDezgo {
		return c.DezgoAPIKey
	}
	return c.GeminiAPIKey
}

func intEnv(key string, def int) (int, error) {
	v, err := strconv.Atoi(envutil.GetEnv(key, strconv.Itoa(def)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
