package freetime

import (
	"math"
	"time"
)

// Interval is a half-open span of time [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start. Malformed intervals return a negative duration.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Empty reports whether the interval covers no time.
func (i Interval) Empty() bool {
	return !i.Start.Before(i.End)
}

// Valid reports whether Start is not after End.
func (i Interval) Valid() bool {
	return !i.Start.After(i.End)
}

// Event is an occupied interval with a display label.
type Event struct {
	Interval
	Label string
}

// NewEvent creates an event from its bounds and label.
func NewEvent(label string, start, end time.Time) Event {
	return Event{Interval: Interval{Start: start, End: end}, Label: label}
}

// WorkWindow is the working-hours bound for a single calendar day.
type WorkWindow struct {
	Interval
	// Day is midnight of the calendar date the window belongs to.
	Day time.Time
}

// NewWorkWindow builds the window [startHour:00, endHour:00) on the calendar
// date of day, in loc. A nil loc uses day's own location.
//
// The window is not validated: startHour >= endHour produces a window whose
// Start is not before its End, which FindGaps treats as having no free time.
func NewWorkWindow(day time.Time, startHour, endHour int, loc *time.Location) WorkWindow {
	if loc == nil {
		loc = day.Location()
	}
	y, m, d := day.In(loc).Date()
	return WorkWindow{
		Day: time.Date(y, m, d, 0, 0, 0, 0, loc),
		Interval: Interval{
			Start: time.Date(y, m, d, startHour, 0, 0, 0, loc),
			End:   time.Date(y, m, d, endHour, 0, 0, 0, loc),
		},
	}
}

// Valid reports whether the window has Start strictly before End.
func (w WorkWindow) Valid() bool {
	return w.Start.Before(w.End)
}

// Gap is a free interval inside a WorkWindow.
type Gap struct {
	Interval
	// Hours is the gap length in hours.
	Hours float64
}

func newGap(start, end time.Time) Gap {
	return Gap{
		Interval: Interval{Start: start, End: end},
		Hours:    end.Sub(start).Hours(),
	}
}

// maxHours is the largest hour count a time.Duration can hold.
const maxHours = float64(math.MaxInt64) / float64(time.Hour)

// Hours converts a fractional hour count into a duration. Negative input and
// NaN yield zero; values beyond the range of time.Duration saturate at the
// largest duration.
func Hours(h float64) time.Duration {
	if math.IsNaN(h) || h <= 0 {
		return 0
	}
	if h >= maxHours {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(h * float64(time.Hour))
}
