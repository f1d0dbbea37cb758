package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/teemow/workday/internal/freetime"
)

// PlanFreeTime loads the events of days consecutive dates starting at the
// date of from and computes their free time with p.
func PlanFreeTime(ctx context.Context, src EventSource, p freetime.Planner, from time.Time, days int, skipAllDay bool) (freetime.Report, error) {
	if days <= 0 {
		return freetime.Report{}, nil
	}
	loc := p.Location
	if loc == nil {
		loc = time.Local
		p.Location = loc
	}
	y, m, d := from.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, days)

	events, err := src.Events(ctx, start, end)
	if err != nil {
		return freetime.Report{}, fmt.Errorf("failed to load events: %w", err)
	}
	return p.Plan(start, days, ToFreetimeEvents(events, loc, skipAllDay))
}
