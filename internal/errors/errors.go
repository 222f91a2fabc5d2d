// Package errors provides the structured application error used across
// every layer of the scheduler: query validation, the scheduling engine,
// flight-plan projection, task admission, and the task workers.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an AppError for logging, metrics, and HTTP mapping.
type ErrorType string

const (
	// Query validation (spec.md §7).
	ErrorTypeVertiportID      ErrorType = "vertiport_id"
	ErrorTypeTime             ErrorType = "time"
	ErrorTypeTimeRangeTooLarge ErrorType = "time_range_too_large"

	// Scheduling layer.
	ErrorTypeNoPathFound      ErrorType = "no_path_found"
	ErrorTypeScheduleConflict ErrorType = "schedule_conflict"
	ErrorTypeClient           ErrorType = "client_error"
	ErrorTypeInvalidData      ErrorType = "invalid_data"

	// Flight-plan projection.
	ErrorTypeData ErrorType = "data"

	// Task admission / workers.
	ErrorTypeUserID          ErrorType = "user_id"
	ErrorTypeAlreadyProcessed ErrorType = "already_processed"
	ErrorTypeInvalidAction   ErrorType = "invalid_action"
	ErrorTypeMetadata        ErrorType = "metadata"

	// Generic / ambient.
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeInternal   ErrorType = "internal"
)

// statusByType mirrors kubernaut's internal/errors HTTP status table,
// extended with the scheduler-specific error types from spec.md §7.
var statusByType = map[ErrorType]int{
	ErrorTypeValidation:        http.StatusBadRequest,
	ErrorTypeVertiportID:       http.StatusBadRequest,
	ErrorTypeTime:              http.StatusBadRequest,
	ErrorTypeTimeRangeTooLarge: http.StatusBadRequest,
	ErrorTypeUserID:            http.StatusBadRequest,
	ErrorTypeMetadata:          http.StatusBadRequest,
	ErrorTypeInvalidAction:     http.StatusBadRequest,
	ErrorTypeAuth:              http.StatusUnauthorized,
	ErrorTypeNotFound:          http.StatusNotFound,
	ErrorTypeConflict:          http.StatusConflict,
	ErrorTypeScheduleConflict:  http.StatusConflict,
	ErrorTypeAlreadyProcessed:  http.StatusConflict,
	ErrorTypeTimeout:           http.StatusRequestTimeout,
	ErrorTypeRateLimit:         http.StatusTooManyRequests,
	ErrorTypeDatabase:          http.StatusInternalServerError,
	ErrorTypeNetwork:           http.StatusInternalServerError,
	ErrorTypeClient:            http.StatusInternalServerError,
	ErrorTypeInternal:          http.StatusInternalServerError,
	ErrorTypeNoPathFound:       http.StatusNotFound,
	ErrorTypeInvalidData:       http.StatusInternalServerError,
	ErrorTypeData:              http.StatusInternalServerError,
}

// AppError is the structured error type returned from every exported
// function in this module.
type AppError struct {
	Type       ErrorType
	Message    string
	Details    string
	Cause      error
	StatusCode int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches extra context to the error in place and returns it.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithDetailsf attaches formatted extra context to the error in place.
func (e *AppError) WithDetailsf(format string, args ...any) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// New creates an AppError of the given type.
func New(t ErrorType, message string) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		StatusCode: statusCodeFor(t),
	}
}

// Newf creates an AppError of the given type with a formatted message.
func Newf(t ErrorType, format string, args ...any) *AppError {
	return New(t, fmt.Sprintf(format, args...))
}

// Wrap creates an AppError of the given type wrapping an existing error.
func Wrap(cause error, t ErrorType, message string) *AppError {
	err := New(t, message)
	err.Cause = cause
	return err
}

// Wrapf creates an AppError wrapping cause with a formatted message.
func Wrapf(cause error, t ErrorType, format string, args ...any) *AppError {
	return Wrap(cause, t, fmt.Sprintf(format, args...))
}

func statusCodeFor(t ErrorType) int {
	if code, ok := statusByType[t]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// IsType reports whether err is an *AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewValidationError is a predefined constructor for invalid caller input.
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, message)
}

// NewDatabaseError is a predefined constructor for storage/KV failures.
func NewDatabaseError(operation string, cause error) *AppError {
	return Wrapf(cause, ErrorTypeDatabase, "database operation failed: %s", operation)
}

// NewNotFoundError is a predefined constructor for missing entities.
func NewNotFoundError(entity string) *AppError {
	return Newf(ErrorTypeNotFound, "%s not found", entity)
}

// NewAuthError is a predefined constructor for authentication failures.
func NewAuthError(message string) *AppError {
	return New(ErrorTypeAuth, message)
}

// NewTimeoutError is a predefined constructor for timed-out operations.
func NewTimeoutError(operation string) *AppError {
	return Newf(ErrorTypeTimeout, "operation timed out: %s", operation)
}
