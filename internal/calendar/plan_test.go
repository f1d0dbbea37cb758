package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/workday/internal/freetime"
)

type rangeSource struct {
	events     []EventSummary
	start, end time.Time
}

func (s *rangeSource) Events(_ context.Context, start, end time.Time) ([]EventSummary, error) {
	s.start, s.end = start, end
	return s.events, nil
}

func TestPlanFreeTime(t *testing.T) {
	src := &rangeSource{events: []EventSummary{
		{
			Summary: "Planning",
			Start:   time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 3, 11, 11, 0, 0, 0, time.UTC),
		},
		{
			Summary: "Conference",
			AllDay:  true,
			Start:   time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
		},
	}}
	p := freetime.Planner{
		Finder:    freetime.Finder{MinGap: 2 * time.Hour},
		StartHour: 8,
		EndHour:   21,
		Location:  time.UTC,
	}
	from := time.Date(2025, 3, 11, 15, 30, 0, 0, time.UTC)

	report, err := PlanFreeTime(context.Background(), src, p, from, 2, false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), src.start)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), src.end)
	require.Len(t, report.Days, 2)
	assert.Equal(t, 1, len(report.Days[0].Gaps))
	assert.Empty(t, report.Days[1].Gaps, "all-day event blocks the day")

	report, err = PlanFreeTime(context.Background(), src, p, from, 2, true)
	require.NoError(t, err)
	assert.InDelta(t, 10.0+13.0, report.TotalHours, 1e-9)
}

func TestPlanFreeTime_Errors(t *testing.T) {
	p := freetime.Planner{StartHour: 8, EndHour: 21, Location: time.UTC}

	report, err := PlanFreeTime(context.Background(), staticSource{}, p, time.Now(), 0, false)
	require.NoError(t, err)
	assert.Empty(t, report.Days)

	_, err = PlanFreeTime(context.Background(), staticSource{err: errors.New("feed down")}, p, time.Now(), 3, false)
	assert.ErrorContains(t, err, "failed to load events")
}
