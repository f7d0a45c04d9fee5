package library

import (
	"errors"
	"fmt"
)

// Failure kinds reported by the catalog and the reading-list engine. The
// transport layer maps these to status codes; this package never logs or
// retries. All failures are deterministic given the same state, and mutating
// operations validate fully before touching the sequence or cursor.
var (
	// ErrBookNotFound reports a book ID or compound key absent from the
	// catalog, or from the reading list being operated on.
	ErrBookNotFound = errors.New("book not found")

	// ErrUserNotFound reports an unknown user account.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidSelection reports a selection number outside [1, length].
	ErrInvalidSelection = errors.New("invalid selection number")

	// ErrEmptyList reports an operation that requires at least one entry.
	ErrEmptyList = errors.New("reading list is empty")

	// ErrUnauthorized reports a failed credential check.
	ErrUnauthorized = errors.New("invalid username or password")
)

// ValidationError reports malformed input to a catalog or user operation,
// e.g. a non-positive page length or a duplicate compound key.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
