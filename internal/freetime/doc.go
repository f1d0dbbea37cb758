// Package freetime computes free time inside working hours.
//
// A day is described by a WorkWindow (the working-hours bound for one calendar
// date) and the events that occupy it. Clip truncates raw events to the window
// and FindGaps sweeps the clipped events left to right, reporting every free
// interval that reaches a minimum duration.
//
// All functions in this package are pure: they perform no I/O, hold no shared
// state and never modify their arguments, so they can be called concurrently
// for independent days.
//
// Example usage:
//
//	loc, _ := time.LoadLocation("Europe/Berlin")
//	w := freetime.NewWorkWindow(time.Now(), 8, 21, loc)
//	gaps := freetime.FindGaps(w, freetime.Clip(w, events), 2*time.Hour)
//	for _, g := range gaps {
//	    fmt.Printf("%s - %s (%.1fh)\n", g.Start.Format("15:04"), g.End.Format("15:04"), g.Hours)
//	}
package freetime
