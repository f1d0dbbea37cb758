package freetime

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func ev(label string, startHour, endHour int) Event {
	return NewEvent(label, at(startHour, 0), at(endHour, 0))
}

func window(startHour, endHour int) WorkWindow {
	return NewWorkWindow(testDay, startHour, endHour, time.UTC)
}

func TestClip(t *testing.T) {
	w := window(8, 21)

	tests := []struct {
		name   string
		events []Event
		want   []Event
	}{
		{
			name:   "inside window is unchanged",
			events: []Event{ev("standup", 9, 10)},
			want:   []Event{ev("standup", 9, 10)},
		},
		{
			name:   "starts before window",
			events: []Event{ev("early", 6, 10)},
			want:   []Event{ev("early", 8, 10)},
		},
		{
			name:   "ends after window",
			events: []Event{ev("late", 20, 23)},
			want:   []Event{ev("late", 20, 21)},
		},
		{
			name:   "entirely after window is dropped",
			events: []Event{ev("dinner", 22, 23)},
			want:   nil,
		},
		{
			name:   "touching window start is dropped",
			events: []Event{ev("breakfast", 7, 8)},
			want:   nil,
		},
		{
			name:   "malformed event is dropped",
			events: []Event{NewEvent("broken", at(12, 0), at(11, 0)), ev("ok", 13, 14)},
			want:   []Event{ev("ok", 13, 14)},
		},
		{
			name:   "spanning the window is clipped to it",
			events: []Event{NewEvent("offsite", testDay.Add(-24*time.Hour), testDay.Add(48*time.Hour))},
			want:   []Event{ev("offsite", 8, 21)},
		},
		{
			name:   "input order is kept",
			events: []Event{ev("b", 15, 16), ev("a", 9, 10)},
			want:   []Event{ev("b", 15, 16), ev("a", 9, 10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clip(w, tt.events)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClip_DoesNotModifyInput(t *testing.T) {
	events := []Event{ev("early", 6, 10)}
	Clip(window(8, 21), events)
	assert.Equal(t, at(6, 0), events[0].Start)
}

func TestFindGaps(t *testing.T) {
	tests := []struct {
		name   string
		window WorkWindow
		events []Event
		minGap time.Duration
		want   []Gap
	}{
		{
			name:   "no events yields the whole window",
			window: window(8, 21),
			minGap: 2 * time.Hour,
			want:   []Gap{newGap(at(8, 0), at(21, 0))},
		},
		{
			name:   "event covering the window yields nothing",
			window: window(8, 21),
			events: []Event{ev("all day", 8, 21)},
			minGap: 0,
			want:   nil,
		},
		{
			name:   "overlapping events merge",
			window: window(8, 21),
			events: []Event{ev("a", 9, 11), ev("b", 10, 12)},
			minGap: 2 * time.Hour,
			want:   []Gap{newGap(at(12, 0), at(21, 0))},
		},
		{
			name:   "contained event does not reopen the frontier",
			window: window(8, 21),
			events: []Event{ev("long", 9, 15), ev("short", 10, 11)},
			minGap: 0,
			want:   []Gap{newGap(at(8, 0), at(9, 0)), newGap(at(15, 0), at(21, 0))},
		},
		{
			name:   "back to back events leave no gap",
			window: window(8, 21),
			events: []Event{ev("a", 8, 10), ev("b", 10, 12), ev("c", 12, 21)},
			minGap: 0,
			want:   nil,
		},
		{
			name:   "unsorted input is sorted",
			window: window(8, 21),
			events: []Event{ev("late", 17, 18), ev("early", 9, 10)},
			minGap: time.Hour,
			want: []Gap{
				newGap(at(8, 0), at(9, 0)),
				newGap(at(10, 0), at(17, 0)),
				newGap(at(18, 0), at(21, 0)),
			},
		},
		{
			name:   "gap of exactly the minimum is kept",
			window: window(8, 21),
			events: []Event{ev("a", 10, 21)},
			minGap: 2 * time.Hour,
			want:   []Gap{newGap(at(8, 0), at(10, 0))},
		},
		{
			name:   "gap just below the minimum is dropped",
			window: window(8, 21),
			events: []Event{NewEvent("a", at(9, 59), at(21, 0))},
			minGap: 2 * time.Hour,
			want:   nil,
		},
		{
			name:   "negative minimum reports every gap",
			window: window(8, 10),
			events: []Event{NewEvent("a", at(8, 1), at(10, 0))},
			minGap: -time.Hour,
			want:   []Gap{newGap(at(8, 0), at(8, 1))},
		},
		{
			name:   "inverted window yields nothing",
			window: window(21, 8),
			events: []Event{ev("a", 9, 10)},
			minGap: 0,
			want:   nil,
		},
		{
			name:   "empty window yields nothing",
			window: window(9, 9),
			minGap: 0,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindGaps(tt.window, tt.events, tt.minGap)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindGaps_OverlapMergeDuration(t *testing.T) {
	w := window(8, 21)
	gaps := FindGaps(w, Clip(w, []Event{ev("a", 9, 11), ev("b", 10, 12)}), Hours(2))

	require.Len(t, gaps, 1)
	assert.Equal(t, at(12, 0), gaps[0].Start)
	assert.Equal(t, at(21, 0), gaps[0].End)
	assert.InDelta(t, 9.0, gaps[0].Hours, 1e-9)
}

func TestFindGaps_ClippedEventsBoundGaps(t *testing.T) {
	w := window(8, 21)
	events := Clip(w, []Event{ev("early", 6, 10), ev("dinner", 22, 23)})
	gaps := FindGaps(w, events, 0)

	require.Len(t, gaps, 1)
	assert.Equal(t, at(10, 0), gaps[0].Start)
	assert.Equal(t, at(21, 0), gaps[0].End)
}

// Random event sets must tile the window: busy time plus free time equals the
// window length, and no gap overlaps an event.
func TestFindGaps_Partition(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w := window(8, 21)

	for i := 0; i < 200; i++ {
		var events []Event
		for n := rng.Intn(8); n > 0; n-- {
			start := at(5, 0).Add(time.Duration(rng.Intn(19*60)) * time.Minute)
			end := start.Add(time.Duration(rng.Intn(240)) * time.Minute)
			events = append(events, NewEvent("e", start, end))
		}

		day, err := Finder{}.Find(w, events)
		require.NoError(t, err)

		total := w.Duration().Hours()
		assert.InDelta(t, total, day.BusyHours()+day.FreeHours(), 1e-9, "iteration %d", i)

		for _, g := range day.Gaps {
			assert.False(t, g.Empty())
			for _, e := range day.Events {
				overlaps := g.Start.Before(e.End) && e.Start.Before(g.End)
				assert.False(t, overlaps, "gap %v overlaps event %v", g.Interval, e.Interval)
			}
		}
		for j := 1; j < len(day.Gaps); j++ {
			assert.False(t, day.Gaps[j].Start.Before(day.Gaps[j-1].End))
		}
	}
}

func TestHours(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  time.Duration
	}{
		{name: "whole", hours: 2, want: 2 * time.Hour},
		{name: "fractional", hours: 1.5, want: 90 * time.Minute},
		{name: "zero", hours: 0, want: 0},
		{name: "negative", hours: -1, want: 0},
		{name: "nan", hours: math.NaN(), want: 0},
		{name: "beyond duration range", hours: 1e7, want: time.Duration(math.MaxInt64)},
		{name: "infinite", hours: math.Inf(1), want: time.Duration(math.MaxInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hours(tt.hours))
		})
	}
}

func TestFindGaps_HugeMinimumExcludesEverything(t *testing.T) {
	w := window(8, 21)
	assert.Empty(t, FindGaps(w, nil, Hours(1e7)))
}
