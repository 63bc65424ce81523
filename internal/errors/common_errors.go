package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeUnreadableFile    ErrorType = "UNREADABLE_FILE"
	ErrTypeMissingColumn     ErrorType = "MISSING_COLUMN"
	ErrTypeNoValidTimestamps ErrorType = "NO_VALID_TIMESTAMPS"
	ErrTypeExport            ErrorType = "EXPORT_IO"
	ErrTypeParsing           ErrorType = "PARSING"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeNotFound          ErrorType = "NOT_FOUND"
	ErrTypeConfig            ErrorType = "CONFIG"
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

// IsType reports whether err is, or wraps, an *AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// Helper functions for common error types

// NewUnreadableFileError signals that no encoding in the priority list could
// decode the input file.
func NewUnreadableFileError(path string, cause error) *AppError {
	return NewAppError(ErrTypeUnreadableFile, "unable to read log file with any supported encoding", cause).
		WithContext("path", path)
}

// NewMissingColumnError signals that a required column is absent from the
// input, naming the column.
func NewMissingColumnError(column string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("required column not found: %s", column), nil).
		WithContext("column", column)
}

// NewNoValidTimestampsError signals that zero rows produced a usable instant.
func NewNoValidTimestampsError(total int) *AppError {
	return NewAppError(ErrTypeNoValidTimestamps, "no valid timestamps in input", nil).
		WithContext("total_rows", total)
}

// NewExportError signals that the workbook could not be written.
func NewExportError(message string, cause error) *AppError {
	return NewAppError(ErrTypeExport, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
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
