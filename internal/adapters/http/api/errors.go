package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("not found")
	ErrInvalidUsers  = errors.New("one or both users invalid")
	ErrNotEnoughData = errors.New("not enough data")
)

// WrapKind tags err with a sentinel kind so callers can match it with
// errors.Is while keeping the cause.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind reports kind for op without a further cause.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// Messages returned to clients. Causes are logged, never sent.
const (
	InvalidUsersMessage  = "One or both users invalid."
	MissingHandleMessage = "A handle is required."
	MissingPairMessage   = "Both a and b are required."
	BadBodyMessage       = "Body must be a JSON object with a handle."
)

// UserNotFoundMessage is the single answer for any failed profile fetch,
// whether the judge rejected the handle or could not be reached.
func UserNotFoundMessage(handle string) string {
	return "User '" + handle + "' not found or API issue."
}
