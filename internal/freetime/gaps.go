package freetime

import (
	"slices"
	"time"
)

// FindGaps returns the free intervals of w not covered by events that last at
// least minGap, in chronological order.
//
// events are expected to be clipped to w already (see Clip). They are sorted
// by start on a copy; ties keep input order. A frontier tracks the time that
// is already accounted for, so overlapping and contained events merge without
// producing spurious gaps. A negative minGap is treated as zero, which reports
// every non-empty gap. A window whose Start is not before its End has no free
// time and yields nil.
func FindGaps(w WorkWindow, events []Event, minGap time.Duration) []Gap {
	if !w.Valid() {
		return nil
	}
	if minGap < 0 {
		minGap = 0
	}

	sorted := sortedByStart(events)

	var gaps []Gap
	frontier := w.Start
	for _, e := range sorted {
		if frontier.Before(e.Start) && e.Start.Sub(frontier) >= minGap {
			gaps = append(gaps, newGap(frontier, e.Start))
		}
		if e.End.After(frontier) {
			frontier = e.End
		}
	}
	if frontier.Before(w.End) && w.End.Sub(frontier) >= minGap {
		gaps = append(gaps, newGap(frontier, w.End))
	}
	return gaps
}

func sortedByStart(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return a.Start.Compare(b.Start)
	})
	return sorted
}
