// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrValidation indicates the input data failed validation rules.
	ErrValidation = errors.New("validation failed")

	// ErrBadRequest indicates the request shape is invalid (e.g., acting on yourself
	// through an admin endpoint).
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the presented token was valid but has expired.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidToken indicates the presented token is malformed or its signature
	// does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden indicates the authenticated user doesn't have permission.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrRateLimited indicates the client exceeded a request quota.
	ErrRateLimited = errors.New("rate limited")

	// ErrDatabase indicates a storage-layer failure.
	ErrDatabase = errors.New("database error")

	// ErrUnavailable indicates a required external dependency is down.
	ErrUnavailable = errors.New("service unavailable")
)

// Error couples a client-facing message with one of the sentinel kinds.
// The message is what API consumers see; the kind drives status code mapping.
type Error struct {
	Kind    error
	Message string
}

// Error returns the client-facing message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel kind so errors.Is matches against it.
func (e *Error) Unwrap() error {
	return e.Kind
}

// WithMessage creates an error of the given kind carrying a client-facing message.
func WithMessage(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
