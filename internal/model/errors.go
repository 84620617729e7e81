package model

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a normalized error.
type ErrorKind string

const (
	KindInvalidInput          ErrorKind = "invalid_input"
	KindDuplicateValue        ErrorKind = "duplicate_value"
	KindAuthInvalid           ErrorKind = "auth_invalid"
	KindAuthExpired           ErrorKind = "auth_expired"
	KindTokenInvalidOrExpired ErrorKind = "token_invalid_or_expired"
	KindValidationFailed      ErrorKind = "validation_failed"
	KindUnauthorized          ErrorKind = "unauthorized"
	KindForbidden             ErrorKind = "forbidden"
	KindNotFound              ErrorKind = "not_found"
	KindInternal              ErrorKind = "internal"
)

// AppError is the normalized form every failure takes before it reaches a
// caller. Operational errors are expected, user-caused failures whose Message
// is safe to show verbatim; anything else is masked outside development.
type AppError struct {
	Kind        ErrorKind
	Message     string
	StatusCode  int
	Operational bool
	// Cause is the raw failure, kept for server-side logging and verbose responses.
	Cause error
}

// Error implements the error interface
func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status returns "fail" for client errors and "error" for server errors.
func (e *AppError) Status() string {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return "fail"
	}
	return "error"
}

// Common error constructors

func NewInvalidInputError(message string, cause error) *AppError {
	return &AppError{
		Kind:        KindInvalidInput,
		Message:     message,
		StatusCode:  http.StatusBadRequest,
		Operational: true,
		Cause:       cause,
	}
}

func NewDuplicateValueError(field, value string, cause error) *AppError {
	return &AppError{
		Kind:        KindDuplicateValue,
		Message:     fmt.Sprintf("Duplicate field value %s: '%s'. Please use another value.", field, value),
		StatusCode:  http.StatusBadRequest,
		Operational: true,
		Cause:       cause,
	}
}

func NewAuthInvalidError(cause error) *AppError {
	return &AppError{
		Kind:        KindAuthInvalid,
		Message:     "Invalid token. Please log in again.",
		StatusCode:  http.StatusUnauthorized,
		Operational: true,
		Cause:       cause,
	}
}

func NewAuthExpiredError(cause error) *AppError {
	return &AppError{
		Kind:        KindAuthExpired,
		Message:     "Your token has expired. Please log in again.",
		StatusCode:  http.StatusUnauthorized,
		Operational: true,
		Cause:       cause,
	}
}

func NewTokenInvalidOrExpiredError(cause error) *AppError {
	return &AppError{
		Kind:        KindTokenInvalidOrExpired,
		Message:     "Token is invalid or has expired.",
		StatusCode:  http.StatusBadRequest,
		Operational: true,
		Cause:       cause,
	}
}

func NewValidationFailedError(message string, cause error) *AppError {
	return &AppError{
		Kind:        KindValidationFailed,
		Message:     message,
		StatusCode:  http.StatusBadRequest,
		Operational: true,
		Cause:       cause,
	}
}

func NewUnauthorizedError(message string, cause error) *AppError {
	return &AppError{
		Kind:        KindUnauthorized,
		Message:     message,
		StatusCode:  http.StatusUnauthorized,
		Operational: true,
		Cause:       cause,
	}
}

func NewForbiddenError(cause error) *AppError {
	return &AppError{
		Kind:        KindForbidden,
		Message:     "You do not have permission to perform this action.",
		StatusCode:  http.StatusForbidden,
		Operational: true,
		Cause:       cause,
	}
}

func NewNotFoundError(resource string, cause error) *AppError {
	return &AppError{
		Kind:        KindNotFound,
		Message:     fmt.Sprintf("No %s found with that ID.", resource),
		StatusCode:  http.StatusNotFound,
		Operational: true,
		Cause:       cause,
	}
}

// NewInternalError wraps an unexpected failure. The raw message is kept so
// development responses can show it; production responses mask it.
func NewInternalError(cause error) *AppError {
	message := "internal error"
	if cause != nil {
		message = cause.Error()
	}
	return &AppError{
		Kind:        KindInternal,
		Message:     message,
		StatusCode:  http.StatusInternalServerError,
		Operational: false,
		Cause:       cause,
	}
}

// NewRouteNotFoundError reports a request for a path no route serves.
func NewRouteNotFoundError(path string) *AppError {
	return &AppError{
		Kind:        KindNotFound,
		Message:     fmt.Sprintf("Can't find %s on this server", path),
		StatusCode:  http.StatusNotFound,
		Operational: true,
	}
}
