// Package apperr defines the error taxonomy shared by the store and the
// HTTP layer. Handlers map kinds to status codes; the underlying cause is
// kept for logging and never shown verbatim to API clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport-level mapping.
type Kind int

const (
	// KindValidation means required input was missing or malformed.
	KindValidation Kind = iota
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
	// KindConflict means a unique constraint was violated.
	KindConflict
	// KindStorage means the persistence layer failed.
	KindStorage
)

// Error is a typed application error with an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Conflict creates a unique-constraint conflict error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps an underlying persistence failure. msg is safe to show
// to callers; err is the raw cause and stays internal.
func Storage(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindStorage, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindStorage for untyped errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStorage
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindNotFound
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindValidation
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindConflict
}

// PublicMessage returns the message safe to expose to clients. Storage
// errors collapse to a generic message so driver text never leaks.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Kind != KindStorage {
		return ae.Msg
	}
	return "internal error"
}
