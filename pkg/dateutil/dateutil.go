package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO date format used throughout the tool.
const DateLayout = "2006-01-02"

// ClockLayout is the 24-hour wall-clock format used for commit times.
const ClockLayout = "15:04"

// ClockMinutes converts a zero-padded "HH:MM" string to minutes since
// midnight. Returns -1 for malformed input.
func ClockMinutes(clock string) int {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// MinutesBetween returns the number of minutes from one "HH:MM" wall-clock
// time to another on the same day. The result is negative when `to` is
// earlier than `from`.
func MinutesBetween(from, to string) int {
	return ClockMinutes(to) - ClockMinutes(from)
}

// IsValidClock reports whether the string is a well-formed zero-padded
// "HH:MM" time. Clock strings are compared lexicographically elsewhere, so
// zero-padding is required, not optional.
func IsValidClock(clock string) bool {
	if len(clock) != 5 || clock[2] != ':' {
		return false
	}
	_, err := time.Parse(ClockLayout, clock)
	return err == nil
}

// DayIndex returns the day of week as an index with Sunday=0 .. Saturday=6.
func DayIndex(date time.Time) int {
	return int(date.Weekday())
}

// IsSaturday returns true if the date falls on a Saturday.
func IsSaturday(date time.Time) bool {
	return date.Weekday() == time.Saturday
}

// IsSunday returns true if the date falls on a Sunday.
func IsSunday(date time.Time) bool {
	return date.Weekday() == time.Sunday
}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// FormatDate formats a date as an ISO "YYYY-MM-DD" string.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseDate parses an ISO "YYYY-MM-DD" date string.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t, nil
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
