package cli

import (
	stderrors "errors"
	"fmt"

	"task-viewer/internal/errors"
	"task-viewer/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// handledError carries the user-facing message while keeping the cause
// reachable for ExitCode.
type handledError struct {
	msg   string
	cause error
}

func (e *handledError) Error() string { return e.msg }
func (e *handledError) Unwrap() error { return e.cause }

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return fmt.Errorf("failed to %s", operation)
	}
	return &handledError{msg: fmt.Sprintf("failed to %s: %s", operation, eh.message(err)), cause: err}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	var handled *handledError
	if stderrors.As(err, &handled) {
		return err
	}
	if _, ok := errors.AsAppError(err); ok || validation.IsValidationError(err) {
		return fmt.Errorf("%s", eh.message(err))
	}
	return err
}

// message prefers the field messages of a validation error over the
// summary carried by the AppError wrapping it.
func (eh *ErrorHandler) message(err error) string {
	if ve, ok := validation.AsValidationError(err); ok && ve.HasErrors() {
		return ve.GetUserFriendlyMessage()
	}
	if _, ok := errors.AsAppError(err); ok {
		return errors.GetUserMessage(err)
	}
	return err.Error()
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsRateLimitError checks if an error is a rate limit error
func (eh *ErrorHandler) IsRateLimitError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeRateLimit)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

// ExitCode maps an error to the process exit status
func (eh *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case eh.IsValidationError(err), errors.IsErrorType(err, errors.ErrorTypeInvalidInput):
		return 2
	case eh.IsRateLimitError(err):
		return 3
	default:
		return 1
	}
}
