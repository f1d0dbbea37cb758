package freetime

// Clip returns the events that intersect the window, each truncated to the
// window bounds. Events with Start after End are malformed and dropped, as are
// events whose overlap with the window is empty. The result keeps input order
// and labels.
func Clip(w WorkWindow, events []Event) []Event {
	var clipped []Event
	for _, e := range events {
		if !e.Valid() {
			continue
		}
		start := e.Start
		if w.Start.After(start) {
			start = w.Start
		}
		end := e.End
		if w.End.Before(end) {
			end = w.End
		}
		if !start.Before(end) {
			continue
		}
		clipped = append(clipped, NewEvent(e.Label, start, end))
	}
	return clipped
}
