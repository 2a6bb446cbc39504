// internal/core/domain/errors.go
package domain

import "errors"

// Error taxonomy shared by both stores. Validation failures and the duplicate
// username conflict are always detected before any I/O; ErrStorage is the only
// kind that can occur after validation passes and always leaves persisted
// state unchanged.
var (
	// ErrInvalidInput marks a caller-correctable validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateUsername is returned by registration when the normalized
	// username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrAuthFailure covers both an absent account and a credential mismatch.
	// The two are deliberately indistinguishable to the caller.
	ErrAuthFailure = errors.New("invalid username or password")

	// ErrStorage wraps faults from the underlying storage engine.
	ErrStorage = errors.New("storage failure")
)
