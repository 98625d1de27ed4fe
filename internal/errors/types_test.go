package errors

import (
	"errors"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  string
	}{
		{ErrorTypeValidation, "validation"},
		{ErrorTypeNotFound, "not_found"},
		{ErrorTypeDatabase, "database"},
		{ErrorTypeInvalidInput, "invalid_input"},
		{ErrorTypeTimeout, "timeout"},
		{ErrorTypeRateLimit, "rate_limit"},
		{ErrorType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.errorType.String(); got != tt.expected {
				t.Errorf("ErrorType.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	withCause := &AppError{Type: ErrorTypeDatabase, Message: "write failed", Cause: errors.New("locked")}
	if got := withCause.Error(); got != "database: write failed (caused by: locked)" {
		t.Errorf("AppError.Error() = %q", got)
	}

	withoutCause := &AppError{Type: ErrorTypeNotFound, Message: "task not found: 1"}
	if got := withoutCause.Error(); got != "not_found: task not found: 1" {
		t.Errorf("AppError.Error() = %q", got)
	}
}

func TestAppError_Is(t *testing.T) {
	a := NewNotFoundError("task", "1")
	b := NewNotFoundError("discipline", "Física")
	c := NewDatabaseError("x", nil)

	if !errors.Is(a, b) {
		t.Error("errors with the same type and code should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different types should not match")
	}
}

func TestAppError_LogAttrs(t *testing.T) {
	attrs := NewNotFoundError("task", "1").LogAttrs()

	got := make(map[any]any)
	for i := 0; i+1 < len(attrs); i += 2 {
		got[attrs[i]] = attrs[i+1]
	}
	want := map[any]any{"type": "not_found", "code": "NOT_FOUND", "resource": "task", "identifier": "1"}
	if len(got) != len(want) {
		t.Fatalf("LogAttrs() = %v", attrs)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("LogAttrs()[%v] = %v, want %v", k, got[k], v)
		}
	}
}
