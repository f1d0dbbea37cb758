package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExtractor(order Order) *Extractor {
	e := NewExtractor(order, time.UTC)
	e.Now = func() time.Time { return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []time.Time
	}{
		{
			name: "past dates are dropped",
			text: "was due 1/5/2025, now due 3/20/2025",
			want: []time.Time{date(2025, time.March, 20)},
		},
		{
			name: "today counts as past",
			text: "due 3/10/2025",
			want: nil,
		},
		{
			name: "tomorrow is kept",
			text: "due 3/11/2025",
			want: []time.Time{date(2025, time.March, 11)},
		},
		{
			name: "pipeline order wins over position",
			text: "Meeting on April 2, 2025, report due 3/20/2025",
			want: []time.Time{date(2025, time.March, 20), date(2025, time.April, 2)},
		},
		{
			name: "duplicates across parsers collapse",
			text: "due 2025-03-20 (March 20, 2025)",
			want: []time.Time{date(2025, time.March, 20)},
		},
		{
			name: "no date",
			text: "please send the deadline soon",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testExtractor(MonthFirst).Extract(tt.text)
			assert.Equal(t, tt.want, dates(got))
		})
	}
}

func TestFirst(t *testing.T) {
	m, err := testExtractor(DayFirst).First("Deadline 04/05/2025")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.May, 4), m.Date)
	assert.Equal(t, "numeric", m.Parser)

	_, err = testExtractor(MonthFirst).First("nothing here")
	assert.ErrorIs(t, err, ErrNoDate)
}

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"Deadline", "due", " ", "meeting set-up"})

	tests := []struct {
		texts []string
		want  string
		ok    bool
	}{
		{[]string{"Project DEADLINE", ""}, "deadline", true},
		{[]string{"Hello", "the report is due friday"}, "due", true},
		{[]string{"Meeting Set-Up for Q3"}, "meeting set-up", true},
		{[]string{"Lunch?", "see you"}, "", false},
	}

	for _, tt := range tests {
		got, ok := m.Match(tt.texts...)
		assert.Equal(t, tt.ok, ok, "Match(%q)", tt.texts)
		assert.Equal(t, tt.want, got, "Match(%q)", tt.texts)
	}
}
