package streak

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. Canonical dates order
// lexicographically, so range checks compare strings directly.
type Date string

// DateOf returns the calendar day of t in loc. A nil loc means UTC.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Date(t.In(loc).Format(dateLayout))
}

// ParseDate accepts YYYY-MM-DD and returns it in canonical form.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", raw, err)
	}
	return Date(t.Format(dateLayout)), nil
}

// Valid reports whether d is a real day written in canonical form.
func (d Date) Valid() bool {
	t, err := time.Parse(dateLayout, string(d))
	return err == nil && t.Format(dateLayout) == string(d)
}

// AddDays moves the date by n calendar days.
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return d
	}
	return Date(t.AddDate(0, 0, n).Format(dateLayout))
}

// DaysUntil counts calendar days from d to other; negative when other is
// earlier.
func (d Date) DaysUntil(other Date) int {
	from, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return 0
	}
	to, err := time.Parse(dateLayout, string(other))
	if err != nil {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}

func (d Date) String() string { return string(d) }
