// Package errors provides structured error types for the Waypoint navigation engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across routers, the container, CLI and HTTP host
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// Not every outcome is an error. An action that no navigator claims is a
// defined terminal outcome of bubbling and is reported through a boolean and a
// notification, never through this package. Malformed persisted state is
// recovered locally during rehydration. Only invalid configuration and host
// contract violations (such as a second concurrent transaction) surface here.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - NOT_*: Missing resources or uninitialized hosts
//   - *_TRANSACTION*: Transaction guard violations
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "initial route %q is not configured", name)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "failed to save %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidState     Code = "INVALID_STATE"
	ErrCodeInvalidAction    Code = "INVALID_ACTION"
	ErrCodeInvalidRouteName Code = "INVALID_ROUTE_NAME"
	ErrCodeInvalidKey       Code = "INVALID_KEY"

	// Resource errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeNotInitialized Code = "NOT_INITIALIZED"

	// Host contract violations
	ErrCodeTransactionActive Code = "TRANSACTION_ACTIVE"
	ErrCodeNoTransaction     Code = "NO_TRANSACTION"

	// Storage errors
	ErrCodeStore Code = "STORE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
