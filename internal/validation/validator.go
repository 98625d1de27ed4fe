package validation

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"task-viewer/internal/codec"
	"task-viewer/internal/config"
)

// disciplineNamePattern allows Latin letters including the Latin-1 accented
// range, digits, whitespace, hyphen, dot and underscore. Whitespace covers
// the Unicode space separators (U+00A0 and friends) as well as ASCII.
var disciplineNamePattern = regexp.MustCompile(`^[a-zA-Z\x{00C0}-\x{00FF}0-9\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}\-._]+$`)

// Validator provides common validation utilities
type Validator struct {
	config *config.Config
	dates  *codec.DateCodec
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		config: nil, // Use defaults
		dates:  codec.NewDateCodec(),
	}
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		config: cfg,
		dates:  codec.NewDateCodec(),
	}
}

// WithClock returns a copy of the validator that evaluates dates against now.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	return &Validator{
		config: v.config,
		dates:  codec.NewDateCodecWithClock(now),
	}
}

// Dates returns the date codec the validator uses.
func (v *Validator) Dates() *codec.DateCodec {
	return v.dates
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string has at most max characters
func (v *Validator) IsValidStringLength(s string, max int) bool {
	return Length(s) <= max
}

// IsValidDisciplineName checks the discipline name character set. Input is
// expected in NFC form.
func (v *Validator) IsValidDisciplineName(name string) bool {
	return disciplineNamePattern.MatchString(name)
}

// NormalizeName composes decomposed accents (e followed by U+0301) into
// single code points.
func (v *Validator) NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// ParseDate accepts an ISO date, an RFC 3339 timestamp or a display date in
// the current year, and returns the calendar day at UTC midnight.
func (v *Validator) ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(codec.ISOLayout, text); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	if iso, ok := v.dates.ToISO(text); ok {
		t, err := time.Parse(codec.ISOLayout, iso)
		return t, err == nil
	}
	return time.Time{}, false
}

// DateWindow returns the first and last accepted due dates: January 1 of
// the year DateYearsBack years ago through December 31 of the year
// DateYearsAhead years from now.
func (v *Validator) DateWindow() (time.Time, time.Time) {
	year := v.dates.Now().Year()
	first := time.Date(year-v.getDateYearsBack(), time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year+v.getDateYearsAhead(), time.December, 31, 0, 0, 0, 0, time.UTC)
	return first, last
}

// IsWithinDateWindow checks a calendar day against DateWindow
func (v *Validator) IsWithinDateWindow(day time.Time) bool {
	first, last := v.DateWindow()
	return !day.Before(first) && !day.After(last)
}

func (v *Validator) getTitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 255
}

func (v *Validator) getDescriptionMaxLength() int {
	if v.config != nil {
		return v.config.Validation.DescriptionMaxLength
	}
	return MaxSanitizedLength
}

func (v *Validator) getDisciplineNameMaxLength() int {
	if v.config != nil {
		return v.config.Validation.DisciplineNameMaxLength
	}
	return 100
}

func (v *Validator) getDateYearsBack() int {
	if v.config != nil {
		return v.config.Validation.DateYearsBack
	}
	return 1
}

func (v *Validator) getDateYearsAhead() int {
	if v.config != nil {
		return v.config.Validation.DateYearsAhead
	}
	return 5
}
