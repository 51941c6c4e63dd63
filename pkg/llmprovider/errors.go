package llmprovider

import (
	"errors"
	"fmt"
)

var (
	// ErrAllProvidersFailed indicates all providers failed to generate content
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrNoProvidersConfigured indicates no providers are enabled
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrInvalidRequest indicates the request is malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderRateLimited indicates rate limit exceeded
	ErrProviderRateLimited = errors.New("provider rate limited")
)

// ProviderError wraps provider-specific errors
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// rateLimiter is implemented by client API errors that can report HTTP 429.
type rateLimiter interface {
	RateLimited() bool
}

// wrapProviderError tags err with the provider name and maps 429 responses
// onto ErrProviderRateLimited.
func wrapProviderError(provider string, err error) error {
	var rl rateLimiter
	if errors.As(err, &rl) && rl.RateLimited() {
		return &ProviderError{Provider: provider, Err: fmt.Errorf("%w: %w", ErrProviderRateLimited, err)}
	}
	return &ProviderError{Provider: provider, Err: err}
}
