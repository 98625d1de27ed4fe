package sqlite

import (
	"time"
)

// FormatTimeForDB formats a time.Time value as RFC3339Nano in UTC for consistent storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimeFromDB parses a time written by FormatTimeForDB or any RFC3339 string
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
