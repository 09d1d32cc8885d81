package model

import "time"

// DateLayout is the calendar-date key used for daily logs.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar-date key in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar-date key. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// IsISODate reports whether s is a valid YYYY-MM-DD date.
func IsISODate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}
