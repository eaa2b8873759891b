// Package domainerrors defines the closed set of error kinds the service
// surfaces to its callers. Services translate store-level sentinel errors into
// these codes; the HTTP layer maps codes to status codes.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	CodeUnauthorized         Code = "unauthorized"
	CodeAlreadyClaimed       Code = "already_claimed"
	CodeIdentityAlreadyBound Code = "identity_already_bound"
	CodeResolution           Code = "resolution_failed"
	CodeOAuthCallback        Code = "oauth_callback_failed"
	CodeMissingInput         Code = "missing_input"
	CodeMissingHandle        Code = "missing_handle"
	CodePersistence          Code = "persistence_failed"
	CodeBadRequest           Code = "bad_request"
	CodeNotFound             Code = "not_found"
	CodeInternal             Code = "internal_error"
)

// Error carries a code, a user-facing message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error without a cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap builds an Error around cause.
func Wrap(cause error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: cause}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether err's chain contains an *Error with the given code.
func HasCode(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status the transport layer returns.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeMissingInput, CodeMissingHandle, CodeBadRequest, CodeOAuthCallback:
		return http.StatusBadRequest
	case CodeAlreadyClaimed, CodeIdentityAlreadyBound:
		return http.StatusConflict
	case CodeResolution:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
