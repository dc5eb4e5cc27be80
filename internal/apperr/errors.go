// Package apperr defines the error kinds surfaced by the lifecycle engine.
//
// Callers classify failures with errors.Is against these sentinels. Anything
// else bubbling out of the store is a storage failure and is reported to the
// end user as a generic retryable error.
package apperr

import "errors"

var (
	// ErrInvalidInput marks malformed or missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an absent entity or one owned by someone else.
	// Cross-owner access deliberately reports the same error so existence
	// never leaks.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks an operation illegal for the entity's current
	// lifecycle state, e.g. restoring a note that is not in the trash.
	ErrInvalidState = errors.New("invalid state")
)
