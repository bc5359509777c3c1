package llm

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/cfinsight/pkg/metrics"
)

// ErrMissingKey is returned when the selected provider has no API key.
var ErrMissingKey = errors.New("llm: API key missing")

// ErrUnknownProvider is returned for an unsupported provider name.
var ErrUnknownProvider = errors.New("llm: unknown provider")

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider answered without usable text.
type ErrInvalidResponse struct {
	Err error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// Outcome maps err to a metrics outcome label.
func Outcome(err error) string {
	var (
		rl  *ErrRateLimit
		inv *ErrInvalidResponse
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &rl):
		return metrics.OutcomeRateLimited
	case errors.As(err, &inv):
		return metrics.OutcomeMalformed
	case errors.Is(err, ErrMissingKey):
		return metrics.OutcomeNoKey
	default:
		return metrics.OutcomeUnavailable
	}
}
