// Package apperror defines the error vocabulary shared by services and
// HTTP handlers. Services return *Error values carrying a stable code;
// the HTTP layer maps codes to status lines without inspecting message
// text.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeValidation        Code = "VALIDATION"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeInternal          Code = "INTERNAL"
)

// metadataByCode maps each code to its HTTP status and the reason
// phrase used in the error response body.
var metadataByCode = map[Code]struct {
	HTTPStatus int
	Reason     string
}{
	CodeValidation:        {http.StatusBadRequest, "Bad Request"},
	CodeUnauthorized:      {http.StatusUnauthorized, "Unauthorized"},
	CodeForbidden:         {http.StatusForbidden, "Forbidden"},
	CodeNotFound:          {http.StatusNotFound, "Not Found"},
	CodeConflict:          {http.StatusConflict, "Conflict"},
	CodeInsufficientStock: {http.StatusConflict, "Conflict"},
	CodeInternal:          {http.StatusInternalServerError, "Internal Server Error"},
}

// Error is a coded application error.
type Error struct {
	code    Code
	message string
	details map[string]string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's code.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message.
func (e *Error) Message() string { return e.message }

// Details returns per-field detail strings, or nil.
func (e *Error) Details() map[string]string { return e.details }

// WithDetails attaches per-field details and returns the error.
func (e *Error) WithDetails(details map[string]string) *Error {
	e.details = details
	return e
}

// New builds an *Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that records cause for logging while exposing
// only message to clients.
func Wrap(cause error, code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...), cause: cause}
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// errors that did not originate here.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.code
	}
	return CodeInternal
}

// HTTPStatus returns the HTTP status for the given code.
func HTTPStatus(code Code) int {
	if meta, ok := metadataByCode[code]; ok {
		return meta.HTTPStatus
	}
	return http.StatusInternalServerError
}

// Reason returns the HTTP reason phrase for the given code.
func Reason(code Code) string {
	if meta, ok := metadataByCode[code]; ok {
		return meta.Reason
	}
	return "Internal Server Error"
}
