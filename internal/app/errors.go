package service

import "errors"

// Sentinel errors returned by Service. Causes are wrapped with %w.
var (
	// ErrUserNotFound collapses every fetch failure for one handle.
	ErrUserNotFound = errors.New("user not found or API issue")
	// ErrInvalidComparison is returned when either side of a comparison fails.
	ErrInvalidComparison = errors.New("one or both users invalid")
	// ErrNotEnoughData means the handle has no accepted tags to coach on.
	ErrNotEnoughData = errors.New("not enough data for AI analysis")
)
