package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// maxOccurrences caps the instances produced for a single recurring event.
const maxOccurrences = 5000

type occurrence struct {
	event vevent
	start time.Time
	end   time.Time
}

// expand returns every instance of events overlapping [from, to). Recurring
// events are expanded with their RRULE and EXDATEs, and VEVENTs carrying a
// RECURRENCE-ID replace the instance they override.
func expand(events []vevent, from, to time.Time) ([]occurrence, error) {
	overrides := make(map[string][]vevent)
	var bases []vevent
	for _, ev := range events {
		if ev.RecurrenceID != nil && ev.UID != "" {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
			continue
		}
		bases = append(bases, ev)
	}

	var out []occurrence
	for _, ev := range bases {
		if ev.RRule == "" {
			if ev.Status != "CANCELLED" && overlaps(ev.Start, ev.End, from, to) {
				out = append(out, occurrence{event: ev, start: ev.Start, end: ev.End})
			}
			continue
		}

		occ, err := expandRecurring(ev, overrides[ev.UID], from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, occ...)
	}
	return out, nil
}

func expandRecurring(ev vevent, overrides []vevent, from, to time.Time) ([]occurrence, error) {
	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RRULE of %q: %w", ev.UID, err)
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Instances that start before the range can still reach into it.
	dur := ev.End.Sub(ev.Start)
	starts := set.Between(from.Add(-dur), to, true)
	if len(starts) > maxOccurrences {
		starts = starts[:maxOccurrences]
	}

	var out []occurrence
	for _, s := range starts {
		occ := occurrence{event: ev, start: s, end: s.Add(dur)}
		if o, ok := findOverride(overrides, s); ok {
			occ = occurrence{event: o, start: o.Start, end: o.End}
		}
		if occ.event.Status == "CANCELLED" {
			continue
		}
		if overlaps(occ.start, occ.end, from, to) {
			out = append(out, occ)
		}
	}
	return out, nil
}

func findOverride(overrides []vevent, start time.Time) (vevent, bool) {
	for _, o := range overrides {
		if o.RecurrenceID.Equal(start) {
			return o, true
		}
	}
	return vevent{}, false
}

// overlaps reports whether [aStart, aEnd) intersects [bStart, bEnd). Zero
// length events count when they start inside the range.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aStart.Equal(aEnd) {
		return !aStart.Before(bStart) && aStart.Before(bEnd)
	}
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
