// Package codec converts task dates and statuses between the forms users see
// and the forms the storage backends persist.
package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// ISOLayout is the storage layout of a calendar date.
const ISOLayout = "2006-01-02"

const displaySeparator = " de "

var monthNames = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthName returns the Portuguese month name used in display dates.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// DateCodec converts between ISO dates ("2025-04-10") and display dates
// ("10 de abril"). The display form carries no year; ToISO assumes the
// current year of the codec's clock.
type DateCodec struct {
	now func() time.Time
}

// NewDateCodec creates a DateCodec using the wall clock.
func NewDateCodec() *DateCodec {
	return NewDateCodecWithClock(time.Now)
}

// NewDateCodecWithClock creates a DateCodec that reads the current year from now.
func NewDateCodecWithClock(now func() time.Time) *DateCodec {
	if now == nil {
		now = time.Now
	}
	return &DateCodec{now: now}
}

// Now returns the codec's current time.
func (c *DateCodec) Now() time.Time {
	return c.now()
}

// IsISO reports whether s is a calendar date in ISOLayout.
func IsISO(s string) bool {
	if len(s) != len(ISOLayout) {
		return false
	}
	_, err := time.Parse(ISOLayout, s)
	return err == nil
}

// ToDisplay renders an ISO date as "<day> de <month>". Empty input yields
// empty output and anything that is not an ISO date is returned unchanged.
func (c *DateCodec) ToDisplay(iso string) string {
	if iso == "" {
		return ""
	}
	if !IsISO(iso) {
		return iso
	}
	t, _ := time.Parse(ISOLayout, iso)
	return FormatDisplay(t)
}

// FormatDisplay renders t as a display date.
func FormatDisplay(t time.Time) string {
	return fmt.Sprintf("%d%s%s", t.Day(), displaySeparator, MonthName(t.Month()))
}

// ToISO parses a display date in the current year. ISO input is returned
// unchanged. The boolean is false when no date could be recovered.
func (c *DateCodec) ToISO(display string) (string, bool) {
	return c.ToISOInYear(display, c.now().Year())
}

// ToISOInYear parses a display date in the given year.
func (c *DateCodec) ToISOInYear(display string, year int) (string, bool) {
	if IsISO(display) {
		return display, true
	}
	day, month, ok := parseDisplay(display)
	if !ok {
		return "", false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return "", false
	}
	return t.Format(ISOLayout), true
}

func parseDisplay(display string) (int, time.Month, bool) {
	parts := strings.Split(strings.TrimSpace(display), displaySeparator)
	if len(parts) != 2 {
		return 0, 0, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || day < 1 || day > 31 {
		return 0, 0, false
	}
	month, ok := lookupMonth(parts[1])
	if !ok {
		return 0, 0, false
	}
	return day, month, true
}

func lookupMonth(name string) (time.Month, bool) {
	folded := cases.Fold().String(strings.TrimSpace(name))
	for i, m := range monthNames {
		if cases.Fold().String(m) == folded {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}
