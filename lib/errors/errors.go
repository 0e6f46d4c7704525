// Package errors provides structured error types for the connpool library.
//
// This package provides:
//   - Sentinel errors for common error conditions
//   - Error codes for categorizing failures
//   - Error wrapping with context preservation
package errors

import (
	"errors"
	"fmt"
)

// Error codes for categorizing errors.
const (
	// CodeInternal is an uncategorized internal error.
	CodeInternal = 1
	// CodeState is an operation attempted outside the required lifecycle state.
	CodeState = 2
	// CodeCreate is a failed object creation.
	CodeCreate = 3
	// CodeDestroy is a failed object destruction.
	CodeDestroy = 4
	// CodeTimeout is an operation timeout.
	CodeTimeout = 5
	// CodeRateLimited is an operation denied by rate limiting.
	CodeRateLimited = 6
	// CodeCircuitOpen is an operation rejected by an open circuit breaker.
	CodeCircuitOpen = 7
	// CodeConnection is a transport-level connection error.
	CodeConnection = 8
	// CodeConfiguration is an invalid configuration.
	CodeConfiguration = 9
	// CodeInvalidInput is invalid caller-supplied input.
	CodeInvalidInput = 10
)

// Sentinel errors for common error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrInvalidState indicates an operation attempted in the wrong
	// lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// ErrCreateFailed indicates an object could not be created.
	ErrCreateFailed = errors.New("object creation failed")

	// ErrDestroyFailed indicates an object could not be destroyed.
	ErrDestroyFailed = errors.New("object destruction failed")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimited indicates a rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCircuitOpen indicates the circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrClosed indicates a resource is closed.
	ErrClosed = errors.New("closed")

	// ErrConnection indicates a connection error.
	ErrConnection = errors.New("connection error")

	// ErrConfiguration indicates a configuration error.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error.
	ErrInternal = errors.New("internal error")
)

// Error is a structured error with a code and message.
// It implements the error interface and supports errors.Is/As through Unwrap.
type Error struct {
	// Code is the error code for categorization
	Code int `json:"code"`
	// Message is a human-readable error message
	Message string `json:"message"`
	// Err is the underlying error
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new structured error with the given code and message.
func New(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code int, message string, err error) *Error {
	if err != nil {
		log.WithField("code", code).WithError(err).Debug("wrapping error")
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidState reports that an operation was attempted while the named
// component was in the wrong lifecycle state.
func InvalidState(name, state string) *Error {
	return &Error{
		Code:    CodeState,
		Message: fmt.Sprintf("%s is %s", name, state),
		Err:     ErrInvalidState,
	}
}

// FromSentinel creates a structured error from a sentinel error, assigning
// the matching code.
func FromSentinel(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    codeFromError(err),
		Message: err.Error(),
		Err:     err,
	}
}

// codeFromError maps sentinel errors to error codes.
func codeFromError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidState):
		return CodeState
	case errors.Is(err, ErrCreateFailed):
		return CodeCreate
	case errors.Is(err, ErrDestroyFailed):
		return CodeDestroy
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrCircuitOpen):
		return CodeCircuitOpen
	case errors.Is(err, ErrConnection):
		return CodeConnection
	case errors.Is(err, ErrConfiguration):
		return CodeConfiguration
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	default:
		return CodeInternal
	}
}

// IsInvalidState returns true if the error indicates a wrong lifecycle state.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsCreateFailed returns true if the error indicates a failed creation.
func IsCreateFailed(err error) bool {
	return errors.Is(err, ErrCreateFailed)
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsCircuitOpen returns true if the error indicates an open circuit breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}

// IsClosed returns true if the error indicates a closed resource.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsConfiguration returns true if the error indicates invalid configuration,
// either through the sentinel or the configuration error code.
func IsConfiguration(err error) bool {
	if errors.Is(err, ErrConfiguration) {
		return true
	}
	var e *Error
	return errors.As(err, &e) && e.Code == CodeConfiguration
}

// Join combines multiple errors into a single error.
// Returns nil if all errors are nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target,
// and if so, sets target to that error value and returns true.
func As(err error, target any) bool {
	return errors.As(err, target)
}
