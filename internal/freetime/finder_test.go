package freetime

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHours(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		wantErr bool
	}{
		{"defaults", 8, 21, false},
		{"full day", 0, 23, false},
		{"inverted", 21, 8, true},
		{"equal", 9, 9, true},
		{"negative start", -1, 8, true},
		{"end out of range", 8, 24, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHours(tt.start, tt.end)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWorkHours)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFinder_Find(t *testing.T) {
	w := window(8, 21)
	day, err := Finder{MinGap: 2 * time.Hour}.Find(w, []Event{
		ev("lunch", 12, 13),
		ev("early", 6, 9),
		ev("dinner", 22, 23),
	})
	require.NoError(t, err)

	assert.Equal(t, []Event{ev("early", 8, 9), ev("lunch", 12, 13)}, day.Events)
	assert.Equal(t, []Gap{newGap(at(9, 0), at(12, 0)), newGap(at(13, 0), at(21, 0))}, day.Gaps)
	assert.InDelta(t, 11.0, day.FreeHours(), 1e-9)
	assert.InDelta(t, 2.0, day.BusyHours(), 1e-9)
}

func TestFinder_InvalidWindow(t *testing.T) {
	w := window(21, 8)
	events := []Event{ev("a", 9, 10)}

	day, err := Finder{}.Find(w, events)
	require.NoError(t, err)
	assert.Empty(t, day.Gaps)
	assert.Empty(t, day.Events)

	_, err = Finder{Strict: true}.Find(w, events)
	assert.True(t, errors.Is(err, ErrInvalidWindow))
}

func TestDay_BusyHoursCountsOverlapOnce(t *testing.T) {
	w := window(8, 21)
	day, err := Finder{}.Find(w, []Event{ev("a", 9, 11), ev("b", 10, 12), ev("c", 10, 11)})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, day.BusyHours(), 1e-9)
}

func TestNewWorkWindow(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 23:30 UTC is already the next day in UTC+2.
	w := NewWorkWindow(time.Date(2025, time.March, 11, 23, 30, 0, 0, time.UTC), 8, 21, loc)

	assert.Equal(t, time.Date(2025, time.March, 12, 0, 0, 0, 0, loc), w.Day)
	assert.Equal(t, time.Date(2025, time.March, 12, 8, 0, 0, 0, loc), w.Start)
	assert.Equal(t, time.Date(2025, time.March, 12, 21, 0, 0, 0, loc), w.End)
	assert.True(t, w.Valid())
	assert.False(t, NewWorkWindow(testDay, 21, 8, time.UTC).Valid())
}
