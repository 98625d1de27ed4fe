package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType represents the type of validation error
type ValidationErrorType string

const (
	ErrorTypeRequired         ValidationErrorType = "required"
	ErrorTypeInvalidFormat    ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength    ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue     ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange     ValidationErrorType = "invalid_range"
	ErrorTypeInvalidCharacter ValidationErrorType = "invalid_character"
	ErrorTypeDuplicate        ValidationErrorType = "duplicate"
)

// FieldError represents a validation error for a specific field.
// Value holds the sanitized (and, for length errors, truncated) input.
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

// Error implements the error interface for FieldError
func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError collects every field error found while validating one
// input, so callers can report them all at once.
type ValidationError struct {
	Errors []FieldError
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}
	return "multiple validation errors: " + ve.join("; ", func(fe *FieldError) string { return fe.Error() })
}

func (ve *ValidationError) join(sep string, text func(*FieldError) string) string {
	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = text(&ve.Errors[i])
	}
	return strings.Join(parts, sep)
}

// IsValidationError checks if an error is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidationError extracts a ValidationError from an error chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HasErrors returns true if the ValidationError has any errors
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// OrNil returns ve when it holds errors and a nil error otherwise.
func (ve *ValidationError) OrNil() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// Merge appends the field errors carried by err, if it is a ValidationError.
func (ve *ValidationError) Merge(err error) {
	if other, ok := AsValidationError(err); ok {
		ve.Errors = append(ve.Errors, other.Errors...)
	}
}

// AddError adds a new field error to the validation error
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Type: errorType, Message: message, Value: value})
}

func (ve *ValidationError) addf(field string, errorType ValidationErrorType, value interface{}, format string, args ...interface{}) {
	ve.AddError(field, errorType, fmt.Sprintf(format, args...), value)
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.addf(field, ErrorTypeRequired, nil, "%s is required", field)
}

func (ve *ValidationError) AddInvalidFormatError(field string, value interface{}, expectedFormat string) {
	ve.addf(field, ErrorTypeInvalidFormat, value, "%s has invalid format, expected: %s", field, expectedFormat)
}

// AddInvalidLengthError reports a length outside [min, max]; a zero bound
// is left out of the message.
func (ve *ValidationError) AddInvalidLengthError(field string, value interface{}, min, max int) {
	switch {
	case min > 0 && max > 0:
		ve.addf(field, ErrorTypeInvalidLength, value, "%s must be between %d and %d characters long", field, min, max)
	case min > 0:
		ve.addf(field, ErrorTypeInvalidLength, value, "%s must be at least %d characters long", field, min)
	case max > 0:
		ve.addf(field, ErrorTypeInvalidLength, value, "%s must be at most %d characters long", field, max)
	default:
		ve.addf(field, ErrorTypeInvalidLength, value, "%s has invalid length", field)
	}
}

func (ve *ValidationError) AddInvalidValueError(field string, value interface{}, reason string) {
	ve.addf(field, ErrorTypeInvalidValue, value, "%s has invalid value: %s", field, reason)
}

func (ve *ValidationError) AddInvalidRangeError(field string, value interface{}, reason string) {
	ve.addf(field, ErrorTypeInvalidRange, value, "%s is out of range: %s", field, reason)
}

func (ve *ValidationError) AddInvalidCharacterError(field string, value interface{}) {
	ve.addf(field, ErrorTypeInvalidCharacter, value, "%s contains invalid characters", field)
}

func (ve *ValidationError) AddDuplicateError(field string, value interface{}) {
	ve.addf(field, ErrorTypeDuplicate, value, "%s already exists: %v", field, value)
}

// GetFieldErrors returns all errors for a specific field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var fieldErrors []FieldError
	for _, err := range ve.Errors {
		if err.Field == field {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// HasErrorType reports whether any field error is of the given type
func (ve *ValidationError) HasErrorType(errorType ValidationErrorType) bool {
	for _, err := range ve.Errors {
		if err.Type == errorType {
			return true
		}
	}
	return false
}

// GetUserFriendlyMessage renders the field messages for a terminal, one
// per line when there are several.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}
	return "Multiple validation errors occurred:\n" + ve.join("\n", func(fe *FieldError) string { return "- " + fe.Message })
}

// Summary joins the field messages on one line.
func (ve *ValidationError) Summary() string {
	if !ve.HasErrors() {
		return "Input validation failed"
	}
	return ve.join("; ", func(fe *FieldError) string { return fe.Message })
}

// Messages returns the field messages keyed by field name, first error wins.
func (ve *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(ve.Errors))
	for _, err := range ve.Errors {
		if _, exists := out[err.Field]; !exists {
			out[err.Field] = err.Message
		}
	}
	return out
}
