package freetime

import (
	"time"
)

// Planner computes free time over a run of consecutive days.
type Planner struct {
	Finder
	StartHour int
	EndHour   int
	// Location is the reference time zone for windows. Nil means time.Local.
	Location     *time.Location
	SkipWeekends bool
}

// Report aggregates the days of a plan.
type Report struct {
	Days          []Day
	TotalGaps     int
	TotalHours    float64
	AveragePerDay float64
}

// Plan analyses days consecutive calendar days starting at the date of from.
// The full event set is clipped against every window, so events spanning
// several days count on each of them. The per-day average divides the free
// hours by the number of requested days.
func (p Planner) Plan(from time.Time, days int, events []Event) (Report, error) {
	var report Report
	if days <= 0 {
		return report, nil
	}

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	y, m, d := from.In(loc).Date()
	for i := 0; i < days; i++ {
		date := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		if p.SkipWeekends && isWeekend(date) {
			continue
		}
		day, err := p.Find(NewWorkWindow(date, p.StartHour, p.EndHour, loc), events)
		if err != nil {
			return Report{}, err
		}
		report.Days = append(report.Days, day)
		report.TotalGaps += len(day.Gaps)
		report.TotalHours += day.FreeHours()
	}
	report.AveragePerDay = report.TotalHours / float64(days)
	return report, nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
