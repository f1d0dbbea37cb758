package calendar

import (
	"context"
	"slices"
	"time"

	"github.com/teemow/workday/internal/freetime"
)

// EventSource supplies the events overlapping a time range.
type EventSource interface {
	Events(ctx context.Context, start, end time.Time) ([]EventSummary, error)
}

// MultiSource merges the events of several sources.
type MultiSource []EventSource

// Events queries every source in order and concatenates the results.
func (m MultiSource) Events(ctx context.Context, start, end time.Time) ([]EventSummary, error) {
	var all []EventSummary
	for _, s := range m {
		events, err := s.Events(ctx, start, end)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}
	return all, nil
}

// InLocation returns the event bounds in loc. All-day dates are re-anchored
// to midnight in loc so they cover whole local days.
func (e EventSummary) InLocation(loc *time.Location) (time.Time, time.Time) {
	if e.AllDay {
		return reanchor(e.Start, loc), reanchor(e.End, loc)
	}
	return e.Start.In(loc), e.End.In(loc)
}

// hasBounds reports whether both start and end were parsed.
func (e EventSummary) hasBounds() bool {
	return !e.Start.IsZero() && !e.End.IsZero()
}

func reanchor(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ToFreetimeEvents converts events into free-time events in loc. All-day
// events are dropped when skipAllDay is set.
func ToFreetimeEvents(events []EventSummary, loc *time.Location, skipAllDay bool) []freetime.Event {
	out := make([]freetime.Event, 0, len(events))
	for _, e := range events {
		if (e.AllDay && skipAllDay) || !e.hasBounds() {
			continue
		}
		start, end := e.InLocation(loc)
		out = append(out, freetime.NewEvent(e.Summary, start, end))
	}
	return out
}

// BusyToFreetimeEvents converts free/busy ranges of all calendars into
// anonymous events labelled with their calendar.
func BusyToFreetimeEvents(infos []FreeBusyInfo, loc *time.Location) []freetime.Event {
	var out []freetime.Event
	for _, info := range infos {
		for _, b := range info.Busy {
			out = append(out, freetime.NewEvent("busy: "+info.Calendar, b.Start.In(loc), b.End.In(loc)))
		}
	}
	return out
}

// SortByStart orders events by start time, keeping the order of events that
// start together.
func SortByStart(events []EventSummary) {
	slices.SortStableFunc(events, func(a, b EventSummary) int {
		return a.Start.Compare(b.Start)
	})
}
