package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeUnsupportedFormat ErrorType = "UNSUPPORTED_FORMAT"
	ErrTypeRepairFailed      ErrorType = "REPAIR_FAILED"
	ErrTypeMissingField      ErrorType = "MISSING_REQUIRED_FIELD"
	ErrTypeCalculation       ErrorType = "CALCULATION_PRECONDITION"
	ErrTypeParsing           ErrorType = "PARSING"
	ErrTypeStorage           ErrorType = "STORAGE"
	ErrTypeValidation        ErrorType = "VALIDATION"
	ErrTypeNotFound          ErrorType = "NOT_FOUND"
	ErrTypeConfig            ErrorType = "CONFIG"
)

// AppError represents an application-specific error. Each hard error carries
// remediation suggestions so callers can surface actionable guidance next to
// the failure.
type AppError struct {
	Type        ErrorType
	Message     string
	Cause       error
	Context     map[string]interface{}
	Suggestions []string
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

// WithSuggestions attaches remediation suggestions to the error
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
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

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for common error types

// NewUnsupportedFormatError indicates the detector could not classify the
// input and no caller hint was supplied.
func NewUnsupportedFormatError(message string) *AppError {
	return NewAppError(ErrTypeUnsupportedFormat, message, nil).WithSuggestions(
		"Verify the file format is supported (Excel, CSV, JSON, XML)",
		"Supply an explicit format hint if the file extension is misleading",
	)
}

// NewRepairFailedError indicates the malformed-file heuristics were exhausted
// without finding a usable header.
func NewRepairFailedError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRepairFailed, message, cause).WithSuggestions(
		"Check if the file is corrupted or incomplete",
		"Supply a manually-specified schema for the file",
	)
}

// NewMissingFieldError is the validator's hard failure for an absent
// required field.
func NewMissingFieldError(field string) *AppError {
	return NewAppError(ErrTypeMissingField, fmt.Sprintf("missing required field: %s", field), nil).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Add %s to the data", field),
			"Ensure the source file contains the required columns",
		)
}

// NewCalculationError signals a calculation precondition failure, distinct
// from a validation warning. The engine never silently divides by zero.
func NewCalculationError(message string) *AppError {
	return NewAppError(ErrTypeCalculation, message, nil).WithSuggestions(
		"Check financial data accuracy",
		"Verify income calculations",
	)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
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
