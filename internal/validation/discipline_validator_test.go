package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisciplineValidator_ValidateName(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expected     string
		expectedType ValidationErrorType
	}{
		{name: "simple name", input: "Física", expected: "Física"},
		{name: "trimmed name", input: "  Química Orgânica  ", expected: "Química Orgânica"},
		{name: "no-break space inside", input: "Física\u00a0Moderna", expected: "Física\u00a0Moderna"},
		{name: "decomposed accent is composed", input: "Fi\u0301sica", expected: "Física"},
		{name: "exactly 100 characters", input: strings.Repeat("m", 100), expected: strings.Repeat("m", 100)},
		{name: "empty", input: "", expectedType: ErrorTypeRequired},
		{name: "only quotes", input: `"'"`, expectedType: ErrorTypeRequired},
		{name: "too long", input: strings.Repeat("m", 101), expected: strings.Repeat("m", 100), expectedType: ErrorTypeInvalidLength},
		{name: "invalid characters", input: "Física!", expected: "Física!", expectedType: ErrorTypeInvalidCharacter},
		{name: "emoji", input: "Arte 🎨", expected: "Arte 🎨", expectedType: ErrorTypeInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv := NewDisciplineValidator(nil)

			result, err := dv.ValidateName(tt.input)

			assert.Equal(t, tt.expected, result)
			if tt.expectedType == "" {
				assert.NoError(t, err)
				return
			}
			ve, ok := AsValidationError(err)
			require.True(t, ok)
			assert.True(t, ve.HasErrorType(tt.expectedType))
			assert.Equal(t, FieldName, ve.Errors[0].Field)
		})
	}
}
