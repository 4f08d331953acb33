package services

import (
	"fmt"
	"net/http"
)

// Code classifies a business-rule failure.
type Code string

const (
	CodeUnauthorized    Code = "unauthorized"
	CodeForbidden       Code = "forbidden"
	CodeNotFound        Code = "not_found"
	CodeBadRequest      Code = "bad_request"
	CodeConflict        Code = "conflict"
	CodeExpired         Code = "expired"
	CodeAlreadyResolved Code = "already_resolved"
	CodeDeliveryFailed  Code = "delivery_failed"
	CodeInternal        Code = "internal"
)

// Error is the service-level error carrying the taxonomy code the handlers
// translate to an HTTP status.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeBadRequest, CodeConflict, CodeExpired, CodeAlreadyResolved:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func internal(msg string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msg, Err: err}
}
