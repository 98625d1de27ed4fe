package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "Ler capítulo 3", expected: "Ler capítulo 3"},
		{name: "trims whitespace", input: "  Física \n", expected: "Física"},
		{name: "strips tags", input: "<b>Prova</b> amanhã", expected: "Prova amanhã"},
		{name: "strips script tags", input: `<script>alert("x")</script>ok`, expected: "alert(x)ok"},
		{name: "angle brackets read as a tag", input: "a < b > c", expected: "a  c"},
		{name: "strips stray angle brackets", input: "3 > 2", expected: "3  2"},
		{name: "strips quotes", input: `"quoted" 'text'`, expected: "quoted text"},
		{name: "unterminated tag keeps text", input: "<b texto", expected: "b texto"},
		{name: "empty", input: "", expected: ""},
		{name: "only markup", input: "<br/>", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Truncates(t *testing.T) {
	long := strings.Repeat("á", 1500)

	result := Sanitize(long)

	assert.Equal(t, MaxSanitizedLength, Length(result))
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"  <i>Estudar</i> para a prova  ",
		`<<b>>"x"<`,
		strings.Repeat("a", 999) + " b",
		strings.Repeat("<p>", 10) + "texto" + strings.Repeat(" ", 5),
		"\t'aspas'\t",
		"",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), "input %q", input)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "Fí", Truncate("Física", 2))
	assert.Equal(t, "abc", Truncate("abc", -1))
}
