// Package errors provides structured error types for the IDEF0 generator.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_* and the diagram codes: input validation failures
//   - NOT_FOUND: a stored diagram artifact is missing
//   - INTERNAL_*: unexpected internal errors
//
// The diagram codes (INVALID_DIAGRAM, UNKNOWN_ROLE, DUPLICATE_NODE,
// DANGLING_REFERENCE, UNANCHORED_EDGE) together form the validation error
// family raised while constructing a diagram. Use [IsValidation] to test
// for any of them.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateNode, "duplicate node id %d", id)
//	if errors.IsValidation(err) {
//	    // reject the request, nothing was rendered
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "encode document")
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Diagram validation errors
	ErrCodeInvalidDiagram    Code = "INVALID_DIAGRAM"
	ErrCodeUnknownRole       Code = "UNKNOWN_ROLE"
	ErrCodeDuplicateNode     Code = "DUPLICATE_NODE"
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"
	ErrCodeUnanchoredEdge    Code = "UNANCHORED_EDGE"

	// Request validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidVariant Code = "INVALID_VARIANT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Lookup errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// validationCodes is the set of codes that mean "the diagram or request is malformed".
var validationCodes = map[Code]bool{
	ErrCodeInvalidDiagram:    true,
	ErrCodeUnknownRole:       true,
	ErrCodeDuplicateNode:     true,
	ErrCodeDanglingReference: true,
	ErrCodeUnanchoredEdge:    true,
	ErrCodeInvalidInput:      true,
	ErrCodeInvalidVariant:    true,
	ErrCodeInvalidFormat:     true,
}

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

// IsValidation reports whether err belongs to the validation family.
func IsValidation(err error) bool {
	return validationCodes[GetCode(err)]
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return Is(err, ErrCodeNotFound)
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

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	code := GetCode(err)
	switch {
	case code == ErrCodeNotFound:
		return http.StatusNotFound
	case code == ErrCodeUnsupported:
		return http.StatusBadRequest
	case validationCodes[code]:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
