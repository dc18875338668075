package plan

import (
	"fmt"
	"strings"
	"time"
)

const (
	// parseLayout accepts days and months with or without a leading zero.
	parseLayout = "2/1/2006"

	// CanonicalLayout is the display and storage form of a date.
	CanonicalLayout = "02/01/2006"
)

// Date is a calendar date in canonical DD/MM/YYYY form.
// The zero value means no date is active.
type Date string

// ParseDate parses s as DD/MM/YYYY and returns its canonical form.
// Calendar validity is enforced, so 31/02/2024 is rejected.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(parseLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return DateOf(t), nil
}

// DateOf returns the date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(CanonicalLayout))
}

// IsZero reports whether d is the "no date" value.
func (d Date) IsZero() bool {
	return d == ""
}

// String returns the canonical form.
func (d Date) String() string {
	return string(d)
}

// Key returns the filename-safe form of the date (DD_MM_YYYY).
func (d Date) Key() string {
	return strings.ReplaceAll(string(d), "/", "_")
}

// Time returns the date as midnight UTC.
func (d Date) Time() (time.Time, error) {
	return time.Parse(CanonicalLayout, string(d))
}
