package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes surfaced in API responses. Pre-check conflicts and
// storage-enforced conflicts both map to CodeConflict so callers cannot
// tell the two detection layers apart.
const (
	CodeInvalidInterval   = "INVALID_INTERVAL"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeStorageFailure    = "STORAGE_FAILURE"
)

// AppError carries an application error code alongside the HTTP status the
// API layer should respond with.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

func InvalidInterval(message string) *AppError {
	return New(CodeInvalidInterval, message, http.StatusBadRequest)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func InvalidTransition(from, to string) *AppError {
	return New(CodeInvalidTransition,
		fmt.Sprintf("illegal status transition: %s -> %s", from, to),
		http.StatusConflict)
}

// Storage wraps an opaque backend error. Not retried by the core.
func Storage(err error) *AppError {
	return &AppError{
		Code:       CodeStorageFailure,
		Message:    "storage backend failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// As returns err as an *AppError, wrapping unknown errors as storage
// failures so nothing leaks internals to the API boundary.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Storage(err)
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
