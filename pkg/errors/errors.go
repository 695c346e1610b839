// Package errors provides structured error types for the floorplan engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages for the designer UI
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Layout rule violations carry one of the engine codes:
//   - DUPLICATE_IDENTIFIER: a location identifier is already bound elsewhere
//   - INVALID_CONTAINER: no legal parent container exists at the drop point
//   - LOCKED_ATTRIBUTE: position or size of a locked item was changed
//   - MALFORMED_CODE: a location code fails the code grammar
//   - INCOMPLETE_MAPPING: a vertical rack level has no location identifier
//   - BOUNDS_OVERFLOW: a placement would leave its container or facility
//
// Everything else follows the generic INVALID_*, NOT_FOUND, NETWORK_* and
// INTERNAL_* families.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateIdentifier, "location %s already in use", id)
//	if errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
//	    // Show the conflict to the user
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to save %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout rule violations
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	ErrCodeInvalidContainer    Code = "INVALID_CONTAINER"
	ErrCodeLockedAttribute     Code = "LOCKED_ATTRIBUTE"
	ErrCodeMalformedCode       Code = "MALFORMED_CODE"
	ErrCodeIncompleteMapping   Code = "INCOMPLETE_MAPPING"
	ErrCodeBoundsOverflow      Code = "BOUNDS_OVERFLOW"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeItemNotFound   Code = "ITEM_NOT_FOUND"
	ErrCodeLayoutNotFound Code = "LAYOUT_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// IsRejection reports whether err is a layout rule violation, i.e. a
// validation failure that leaves the layout unchanged and should be shown to
// the user rather than treated as a system fault.
func IsRejection(err error) bool {
	switch GetCode(err) {
	case ErrCodeDuplicateIdentifier, ErrCodeInvalidContainer, ErrCodeLockedAttribute,
		ErrCodeMalformedCode, ErrCodeIncompleteMapping, ErrCodeBoundsOverflow, ErrCodeInvalidInput:
		return true
	}
	return false
}
