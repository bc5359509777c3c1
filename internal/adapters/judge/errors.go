package judge

import (
	"errors"

	"github.com/okian/cfinsight/pkg/metrics"
)

// Failure reasons. Every error returned by Client wraps exactly one of these.
var (
	// ErrNotFound means the judge answered but does not know the handle.
	ErrNotFound = errors.New("judge: handle not found")
	// ErrTransport covers connectivity faults, timeouts and 429/5xx answers.
	ErrTransport = errors.New("judge: transport error")
	// ErrMalformed means the body is not JSON or violates the envelope schema.
	ErrMalformed = errors.New("judge: malformed response")
)

// Outcome maps err to a metrics outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrMalformed):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeTransport
	}
}
