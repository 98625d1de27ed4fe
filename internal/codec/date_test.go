package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.March, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestDateCodec_ToDisplay(t *testing.T) {
	codec := NewDateCodecWithClock(fixedClock(2025))

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "april date", input: "2025-04-10", expected: "10 de abril"},
		{name: "day without leading zero", input: "2025-01-05", expected: "5 de janeiro"},
		{name: "month with accent", input: "2025-03-31", expected: "31 de março"},
		{name: "december", input: "2024-12-25", expected: "25 de dezembro"},
		{name: "already display form", input: "10 de abril", expected: "10 de abril"},
		{name: "garbage passes through", input: "amanhã", expected: "amanhã"},
		{name: "impossible ISO date passes through", input: "2025-02-30", expected: "2025-02-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, codec.ToDisplay(tt.input))
		})
	}
}

func TestDateCodec_ToISO(t *testing.T) {
	codec := NewDateCodecWithClock(fixedClock(2025))

	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "display date", input: "10 de abril", expected: "2025-04-10", ok: true},
		{name: "ISO passes through", input: "2026-01-02", expected: "2026-01-02", ok: true},
		{name: "upper case month", input: "3 de MARÇO", expected: "2025-03-03", ok: true},
		{name: "mixed case month", input: "1 de Janeiro", expected: "2025-01-01", ok: true},
		{name: "surrounding spaces", input: "  7 de julho ", expected: "2025-07-07", ok: true},
		{name: "unknown month", input: "10 de april", ok: false},
		{name: "non numeric day", input: "dez de abril", ok: false},
		{name: "missing separator", input: "10 abril", ok: false},
		{name: "too many parts", input: "10 de abril de 2025", ok: false},
		{name: "day not in month", input: "31 de abril", ok: false},
		{name: "zero day", input: "0 de maio", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := codec.ToISO(tt.input)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDateCodec_ToISOInYear(t *testing.T) {
	codec := NewDateCodecWithClock(fixedClock(2025))

	result, ok := codec.ToISOInYear("29 de fevereiro", 2024)
	assert.True(t, ok)
	assert.Equal(t, "2024-02-29", result)

	_, ok = codec.ToISOInYear("29 de fevereiro", 2025)
	assert.False(t, ok)
}

func TestDateCodec_RoundTripCurrentYear(t *testing.T) {
	codec := NewDateCodecWithClock(fixedClock(2025))

	for day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC); day.Year() == 2025; day = day.AddDate(0, 0, 1) {
		iso := day.Format(ISOLayout)

		result, ok := codec.ToISO(codec.ToDisplay(iso))

		assert.True(t, ok, iso)
		assert.Equal(t, iso, result)
	}
}

func TestDateCodec_RoundTripOtherYearLosesYear(t *testing.T) {
	codec := NewDateCodecWithClock(fixedClock(2025))

	result, ok := codec.ToISO(codec.ToDisplay("2026-06-01"))

	assert.True(t, ok)
	assert.Equal(t, "2025-06-01", result)
}

func TestIsISO(t *testing.T) {
	assert.True(t, IsISO("2025-04-10"))
	assert.False(t, IsISO("2025-4-10"))
	assert.False(t, IsISO("2025-04-10T00:00:00Z"))
	assert.False(t, IsISO("10 de abril"))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "janeiro", MonthName(time.January))
	assert.Equal(t, "dezembro", MonthName(time.December))
	assert.Equal(t, "", MonthName(time.Month(13)))
}
