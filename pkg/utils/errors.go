package utils

import (
	"errors"
	"net/http"
)

// AppError carries an application error code so the HTTP layer can pick the
// right status without inspecting message text.
type AppError struct {
	Code    string
	Message string
	Origin  error // underlying error, if any
}

func (e *AppError) Error() string {
	if e.Origin != nil {
		return e.Message + ": " + e.Origin.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Origin
}

// Error codes used across handlers and services.
const (
	ErrInvalidInput = "INVALID_INPUT"
	ErrNotFound     = "NOT_FOUND"
	ErrDuplicate    = "DUPLICATE"

	ErrUnauthorized = "UNAUTHORIZED" // no/invalid credentials
	ErrForbidden    = "FORBIDDEN"    // authenticated but not allowed

	ErrDatabase = "DATABASE_ERROR"
)

func NewAppError(code, message string, origin error) *AppError {
	return &AppError{Code: code, Message: message, Origin: origin}
}

func NewInvalidInputError(message string) *AppError {
	return &AppError{Code: ErrInvalidInput, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: ErrNotFound, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: ErrForbidden, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func NewDatabaseError(message string, origin error) *AppError {
	return &AppError{Code: ErrDatabase, Message: message, Origin: origin}
}

// IsErrorCode reports whether err is an AppError with the given code.
func IsErrorCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus maps an error to the status code the REST surface promises:
// 400 for validation, 401/403 for auth, 404 for missing records, 500 otherwise.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrInvalidInput, ErrDuplicate:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
