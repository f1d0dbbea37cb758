package freetime

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidWindow is returned in strict mode for a window whose start is
	// not before its end.
	ErrInvalidWindow = errors.New("invalid work window")

	// ErrInvalidWorkHours is returned by ValidateHours.
	ErrInvalidWorkHours = errors.New("invalid work hours")
)

// ValidateHours checks a configured working-hours pair: both must lie in 0-23
// and start must come before end.
func ValidateHours(start, end int) error {
	if start < 0 || start > 23 {
		return fmt.Errorf("%w: start hour %d is outside 0-23", ErrInvalidWorkHours, start)
	}
	if end < 0 || end > 23 {
		return fmt.Errorf("%w: end hour %d is outside 0-23", ErrInvalidWorkHours, end)
	}
	if start >= end {
		return fmt.Errorf("%w: start hour %d is not before end hour %d", ErrInvalidWorkHours, start, end)
	}
	return nil
}

// Day is the result of analysing one WorkWindow.
type Day struct {
	Window WorkWindow
	// Events are the clipped events, sorted by start.
	Events []Event
	Gaps   []Gap
}

// FreeHours returns the sum of all gap durations in hours.
func (d Day) FreeHours() float64 {
	var total float64
	for _, g := range d.Gaps {
		total += g.Hours
	}
	return total
}

// BusyHours returns the time covered by the clipped events, counting
// overlapping spans once.
func (d Day) BusyHours() float64 {
	var busy time.Duration
	frontier := d.Window.Start
	for _, e := range d.Events {
		start := e.Start
		if frontier.After(start) {
			start = frontier
		}
		if e.End.After(start) {
			busy += e.End.Sub(start)
		}
		if e.End.After(frontier) {
			frontier = e.End
		}
	}
	return busy.Hours()
}

// Finder runs Clip and FindGaps for a window with a fixed minimum gap.
type Finder struct {
	MinGap time.Duration
	// Strict turns a malformed window into ErrInvalidWindow instead of an
	// empty result.
	Strict bool
}

// Find clips events to w and computes its gaps.
func (f Finder) Find(w WorkWindow, events []Event) (Day, error) {
	day := Day{Window: w}
	if !w.Valid() {
		if f.Strict {
			return day, fmt.Errorf("%w: %s is not before %s", ErrInvalidWindow,
				w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
		}
		return day, nil
	}
	day.Events = sortedByStart(Clip(w, events))
	day.Gaps = FindGaps(w, day.Events, f.MinGap)
	return day, nil
}
