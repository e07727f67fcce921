// Package oracle provides the natural-language completion capability used for
// evidence that exact and keyword matching cannot settle. Providers are thin
// adapters over go-agents and go-openai; Backoff retries rate-limited calls.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Oracle completes a single prompt.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var (
	ErrRateLimited     = errors.New("oracle rate limited")
	ErrEmptyResponse   = errors.New("oracle returned no content")
	ErrUnknownProvider = errors.New("unknown oracle provider")
)

var rateLimitSignals = []string{
	"429",
	"quota",
	"rate limit",
	"rate_limit",
	"ratelimit",
	"too many requests",
	"resource exhausted",
	"resource_exhausted",
}

// IsRateLimited reports whether err carries a rate-limit signal, either as
// ErrRateLimited or in the provider's error text.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range rateLimitSignals {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// New builds the Oracle named by cfg.Provider. It returns nil, nil when no
// provider is configured so callers can treat the oracle as optional.
func New(cfg *Config) (Oracle, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderOllama, ProviderAzure:
		return NewAgent(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
