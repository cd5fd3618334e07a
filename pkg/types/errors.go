package types

import "errors"

// Operation errors shared by the store and the board service.
var (
	// ErrNotFound reports a missing entity or scope, and also an entity the
	// caller does not own. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrInvalidPosition reports a requested position outside the allowed
	// range for the operation.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrConflict reports a concurrent conflicting write detected by the
	// store. The whole operation may be retried by the caller.
	ErrConflict = errors.New("conflicting concurrent write")
)

// Entity validation errors.
var (
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidData     = errors.New("invalid entity data")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidPriority = errors.New("invalid priority")
)
