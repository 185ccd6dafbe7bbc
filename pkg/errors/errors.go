package errors

import "errors"

// ── Error kinds ──
//
// Every business error returned by the service layer belongs to exactly one of
// these kinds; the transport layer maps kinds to status codes.

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)

// ErrOptimisticLock the row was modified by another operation since it was read
var ErrOptimisticLock = New(ErrConflict, "the record was modified by another operation, please refresh and retry")

// Error a business error carrying a human-readable message and its kind.
type Error struct {
	kind error
	msg  string
}

// New creates a business error of the given kind.
func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the kind so errors.Is(err, ErrConflict) works.
func (e *Error) Unwrap() error { return e.kind }

// Kind returns the kind sentinel of err, or nil when err is not a business error.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrForbidden, ErrInvalidState, ErrConflict} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the human-readable message of a business error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return ""
}
