package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPair: the provider explicitly rejected the currency
	// pair. Never retried, maps to 400 at the HTTP boundary.
	ErrUnsupportedPair = errors.New("currency pair not supported by provider")
	// ErrQuotaExceeded: the provider's daily or monthly call budget is
	// spent; it is skipped for this request.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrNoRatesAvailable: every provider and the fallback failed. The
	// only condition surfaced as a hard failure.
	ErrNoRatesAvailable = errors.New("no rates available")
	// ErrProviderNotFound: a registry lookup for an unknown code.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrCacheMiss: no usable entry in a cache tier.
	ErrCacheMiss = errors.New("cache miss")
)

// ProviderError wraps a single provider's fetch failure so the orchestrator
// can contain it without losing the kind.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError reports that an adapter could not understand a provider's
// output. Raw keeps a payload snippet for diagnostics.
type ParseError struct {
	Provider string
	Stage    string
	Raw      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %s: unparseable output at %s stage", e.Provider, e.Stage)
}

// IsUnsupportedPair reports whether err, anywhere in its chain, is a
// provider's rejection of the currency pair.
func IsUnsupportedPair(err error) bool {
	return errors.Is(err, ErrUnsupportedPair)
}
