// Package apperr defines the error kinds returned by service operations.
// HTTP adapters map a Kind to a status code; services never return bare
// storage errors.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuthentication
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	default:
		return "internal"
	}
}

// Error carries a Kind, a human-readable reason and an optional cause.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Err: cause}
}

// Validation reports missing or malformed input.
func Validation(reason string) *Error { return newError(KindValidation, reason, nil) }

// Conflict reports a duplicate unique key.
func Conflict(reason string, cause error) *Error { return newError(KindConflict, reason, cause) }

// NotFound reports a missing customer, transaction or period.
func NotFound(reason string) *Error { return newError(KindNotFound, reason, nil) }

// Authentication reports bad credentials.
func Authentication(reason string, cause error) *Error {
	return newError(KindAuthentication, reason, cause)
}

// Authorization reports a missing, invalid or revoked token.
func Authorization(reason string) *Error { return newError(KindAuthorization, reason, nil) }

// Internal wraps any other failure.
func Internal(reason string, cause error) *Error { return newError(KindInternal, reason, cause) }

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ReasonOf returns the reason attached to err, or fallback when err is not an *Error.
func ReasonOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Reason != "" {
		return appErr.Reason
	}
	return fallback
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
