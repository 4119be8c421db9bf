package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"

	// Dataset-shape failures produced by the normalization pipeline.
	ErrTypeHeaderNotFound        ErrorType = "HEADER_NOT_FOUND"
	ErrTypeMissingColumn         ErrorType = "MISSING_COLUMN"
	ErrTypeMissingRequiredColumn ErrorType = "MISSING_REQUIRED_COLUMN"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewHeaderNotFoundError signals that no recognizable tabular header was
// located in a CSV source.
func NewHeaderNotFoundError(source string) *AppError {
	return NewAppError(ErrTypeHeaderNotFound, "no recognizable header row found", nil).
		WithContext("source", source)
}

// NewMissingColumnError signals that a semantically required column could
// not be resolved even by fuzzy name match.
func NewMissingColumnError(column string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("column %q could not be resolved", column), nil).
		WithContext("column", column)
}

// NewMissingRequiredColumnError signals that a column the cohort filter
// depends on is absent at the structural level, for every record. This is a
// dataset-shape problem, distinct from per-row nulls.
func NewMissingRequiredColumnError(column string) *AppError {
	return NewAppError(ErrTypeMissingRequiredColumn, fmt.Sprintf("required column %q is absent from the dataset", column), nil).
		WithContext("column", column)
}

// TypeOf returns the ErrorType of err when it wraps an AppError, or the
// empty string otherwise.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsDatasetError reports whether err is one of the classified dataset-shape
// failures. These are handled locally by returning an empty result set plus
// the failure reason, never as fatal termination.
func IsDatasetError(err error) bool {
	switch TypeOf(err) {
	case ErrTypeHeaderNotFound, ErrTypeMissingColumn, ErrTypeMissingRequiredColumn:
		return true
	}
	return false
}
