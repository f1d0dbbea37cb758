package summary

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPeriod is returned by ParsePeriod for an unsupported name.
var ErrUnknownPeriod = errors.New("unknown summary period")

// Period is the span a summary covers.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// ParsePeriod parses "daily", "weekly" or "monthly", ignoring case.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Daily, Weekly, Monthly:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Range returns the half-open interval [start, end) of the period containing
// now, in loc. Weeks start on Monday. A nil loc means time.Local.
func Range(p Period, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch p {
	case Daily:
		return today, today.AddDate(0, 0, 1), nil
	case Weekly:
		// Weekday counts from Sunday; shift so Monday is 0.
		offset := (int(today.Weekday()) + 6) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7), nil
	case Monthly:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
}

// daysBetween counts the calendar days in [start, end). Both bounds are
// midnights in the same location.
func daysBetween(start, end time.Time) int {
	n := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}
