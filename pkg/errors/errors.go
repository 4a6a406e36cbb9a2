// Package errors provides structured error types for the TrustGraph client.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the API client, stores, and CLI
//   - Machine-readable error codes for programmatic handling
//   - Display-ready messages for views
//   - Error wrapping with context preservation
//
// # Error Codes
//
//   - INVALID_INPUT: a required request parameter was empty
//   - HTTP_STATUS: the backend answered with a non-success status
//   - NETWORK_ERROR: the request never produced a response
//   - DECODE_ERROR: the response body could not be parsed
//
// # Usage
//
//	if errors.Is(err, errors.ErrCodeHTTPStatus) && errors.Status(err) == 404 {
//	    // Unknown profile
//	}
//
//	// Display string for a view
//	msg := errors.UserMessage(err) // "HTTP 404: Not Found"
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeHTTPStatus   Code = "HTTP_STATUS"
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeDecode       Code = "DECODE_ERROR"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Status  int    // HTTP status code, set only for ErrCodeHTTPStatus
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
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

// HTTPStatus creates an ErrCodeHTTPStatus error with the message
// "HTTP <status>: <reason>".
func HTTPStatus(status int, reason string) *Error {
	return &Error{
		Code:    ErrCodeHTTPStatus,
		Message: fmt.Sprintf("HTTP %d: %s", status, reason),
		Status:  status,
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

// Status returns the HTTP status carried by err, or 0 if there is none.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
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
