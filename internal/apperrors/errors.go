// Package apperrors provides the error type returned by services to the HTTP layer.
// Handlers expose Code and Message only; Internal stays in the logs.
package apperrors

import (
	"errors"
	"net/http"
)

// AppError represents a structured application error
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so wrapped copies still match their sentinel
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the sentinel's code and status wrapping an internal error
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// From extracts an AppError, mapping anything else to ErrInternal
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrInternal, err)
}

// General errors
var (
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternal     = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrPersistence  = &AppError{Code: "PERSISTENCE_ERROR", Message: "Failed to persist data", StatusCode: http.StatusInternalServerError}
)

// Catalog errors
var (
	ErrRouteNotFound   = &AppError{Code: "ROUTE_NOT_FOUND", Message: "Route not found", StatusCode: http.StatusNotFound}
	ErrAirlineNotFound = &AppError{Code: "AIRLINE_NOT_FOUND", Message: "Airline is not monitored", StatusCode: http.StatusBadRequest}
)
