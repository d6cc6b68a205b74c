package core

import (
	"net/http"

	"github.com/pkg/errors"
)

// Error is a domain error tagged with the HTTP status code it maps to.
// Components tag failures with a code at the point the failure is first
// known; anything untagged is treated as a 500 by the API layer.
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NewError(code int, msg string) error {
	return &Error{Code: code, Msg: msg}
}

func NewBadRequestError(msg string) error {
	return &Error{Code: http.StatusBadRequest, Msg: msg}
}

func NewUnauthorizedError(msg string) error {
	return &Error{Code: http.StatusUnauthorized, Msg: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Code: http.StatusNotFound, Msg: msg}
}

// ErrorCode unwraps err and returns its tagged status code,
// defaulting to 500 for untagged errors.
func ErrorCode(err error) int {
	if appErr, ok := errors.Cause(err).(*Error); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
