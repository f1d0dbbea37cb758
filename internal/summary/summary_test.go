package summary

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/workday/internal/calendar"
	"github.com/teemow/workday/internal/freetime"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"daily", Daily, false},
		{"Weekly", Weekly, false},
		{" monthly ", Monthly, false},
		{"yearly", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPeriod)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name      string
		period    Period
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"daily", Daily, at(12, 15, 30), at(12, 0, 0), at(13, 0, 0)},
		{"weekly midweek", Weekly, at(12, 15, 30), at(10, 0, 0), at(17, 0, 0)},
		{"weekly on monday", Weekly, at(10, 0, 0), at(10, 0, 0), at(17, 0, 0)},
		{"weekly on sunday", Weekly, at(16, 23, 59), at(10, 0, 0), at(17, 0, 0)},
		{"monthly", Monthly, at(31, 8, 0), at(1, 0, 0), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{
			"monthly december", Monthly,
			time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := Range(tt.period, tt.now, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}

	_, _, err := Range("hourly", at(12, 0, 0), time.UTC)
	assert.True(t, errors.Is(err, ErrUnknownPeriod))
}

func TestRange_Location(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 23:30 UTC on the 11th is already the 12th in loc.
	start, end, err := Range(Daily, time.Date(2025, 3, 11, 23, 30, 0, 0, time.UTC), loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, loc), end)
}

func attendees(n int) []calendar.AttendeeInfo {
	out := make([]calendar.AttendeeInfo, n)
	for i := range out {
		out[i] = calendar.AttendeeInfo{Email: "person@example.com"}
	}
	return out
}

func weekEvents() []calendar.EventSummary {
	return []calendar.EventSummary{
		{Summary: "Review", Location: "Room 2", Start: at(12, 11, 0), End: at(12, 12, 0), Attendees: attendees(1)},
		{Summary: "Standup", Location: "Room 1", Start: at(10, 9, 0), End: at(10, 10, 0), Attendees: attendees(2)},
		{Start: at(10, 14, 0), End: at(10, 15, 30)},
		{Summary: "Holiday", Start: at(11, 0, 0), End: at(12, 0, 0), AllDay: true},
		{Summary: "Last week", Start: at(9, 9, 0), End: at(9, 10, 0)},
		{Summary: "Next week", Start: at(17, 9, 0), End: at(17, 10, 0)},
	}
}

func testPlanner() freetime.Planner {
	return freetime.Planner{StartHour: 8, EndHour: 18, Location: time.UTC}
}

func TestBuild(t *testing.T) {
	s, err := Build(Weekly, at(12, 10, 0), weekEvents(), testPlanner())
	require.NoError(t, err)

	assert.Equal(t, at(10, 0, 0), s.Start)
	assert.Equal(t, at(17, 0, 0), s.End)
	assert.Equal(t, 4, s.TotalMeetings)
	assert.InDelta(t, 3.5, s.TotalHours, 1e-9)
	assert.InDelta(t, 4.0/7.0, s.AveragePerDay, 1e-9)
	// 7 days of 10h minus 2.5h on the 10th and 1h on the 12th.
	assert.InDelta(t, 66.5, s.FreeHours, 1e-9)

	require.Len(t, s.Days, 3)
	assert.Equal(t, at(10, 0, 0), s.Days[0].Date)
	assert.Equal(t, "Monday, March 10, 2025 (2 meetings)", s.Days[0].Heading())
	assert.InDelta(t, 7.5, s.Days[0].FreeHours, 1e-9)

	standup := s.Days[0].Meetings[0]
	assert.Equal(t, "Standup", standup.Subject)
	assert.Equal(t, "09:00 AM - 10:00 AM", standup.Time())
	assert.Equal(t, "2 attendees", standup.Attendees)

	untitled := s.Days[0].Meetings[1]
	assert.Equal(t, "No Subject", untitled.Subject)
	assert.Equal(t, "No Location", untitled.Location)
	assert.Equal(t, "No attendees", untitled.Attendees)
	assert.Equal(t, "02:00 PM - 03:30 PM", untitled.Time())

	holiday := s.Days[1]
	assert.Equal(t, "Tuesday, March 11, 2025 (1 meeting)", holiday.Heading())
	assert.Equal(t, "All day", holiday.Meetings[0].Time())
	assert.InDelta(t, 10.0, holiday.FreeHours, 1e-9)

	assert.Equal(t, "Review", s.Days[2].Meetings[0].Subject)
	assert.Equal(t, "1 attendee", s.Days[2].Meetings[0].Attendees)
}

func TestBuild_Empty(t *testing.T) {
	s, err := Build(Daily, at(12, 10, 0), nil, testPlanner())
	require.NoError(t, err)
	assert.Zero(t, s.TotalMeetings)
	assert.Empty(t, s.Days)
	assert.Zero(t, s.AveragePerDay)
	assert.InDelta(t, 10.0, s.FreeHours, 1e-9)
}

func TestBuild_StrictPlanner(t *testing.T) {
	p := testPlanner()
	p.StartHour, p.EndHour = 18, 8
	p.Strict = true
	_, err := Build(Daily, at(12, 10, 0), nil, p)
	assert.ErrorIs(t, err, freetime.ErrInvalidWindow)
}

func TestFilename(t *testing.T) {
	s, err := Build(Weekly, at(12, 10, 0), nil, testPlanner())
	require.NoError(t, err)
	assert.Equal(t, "meeting_summary_20250310_20250316.pdf", Filename(s, "pdf"))
	assert.Equal(t, "meeting_summary_20250310_20250316.html", Filename(s, ".html"))
	assert.Equal(t, "March 10, 2025 - March 16, 2025", s.PeriodLabel())
}

func TestNewRenderer(t *testing.T) {
	for format, ext := range map[string]string{"text": "txt", "HTML": "html", "pdf": "pdf"} {
		r, err := NewRenderer(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, r.Extension())
	}
	_, err := NewRenderer("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTextRenderer(t *testing.T) {
	s, err := Build(Weekly, at(12, 10, 0), weekEvents(), testPlanner())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(context.Background(), &buf, s))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Meeting Summary Report\n"))
	for _, want := range []string{
		"Period: March 10, 2025 - March 16, 2025",
		"3.5 hours",
		"0.6 meetings",
		"66.5 hours",
		"Monday, March 10, 2025 (2 meetings)",
		"09:00 AM - 10:00 AM",
		"Standup",
		"No Location",
		"All day",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Next week")
}

func TestTextRenderer_NoMeetings(t *testing.T) {
	s, err := Build(Daily, at(12, 10, 0), nil, testPlanner())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(context.Background(), &buf, s))
	assert.Contains(t, buf.String(), "No meetings found in this period.")
}

func TestHTMLRenderer(t *testing.T) {
	events := append(weekEvents(), calendar.EventSummary{
		Summary: "<script>alert(1)</script>", Start: at(13, 9, 0), End: at(13, 10, 0),
	})
	s, err := Build(Weekly, at(12, 10, 0), events, testPlanner())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, HTMLRenderer{}.Render(context.Background(), &buf, s))
	out := buf.String()

	assert.Contains(t, out, "<h1>Meeting Summary Report</h1>")
	assert.Contains(t, out, "<h3>Monday, March 10, 2025 (2 meetings)</h3>")
	assert.Contains(t, out, "<td>Standup</td>")
	assert.Contains(t, out, "<td>4.5 hours</td>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestPDFRenderer(t *testing.T) {
	found := false
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			found = true
			break
		}
	}
	if !found {
		t.Skip("no chrome binary available")
	}

	s, err := Build(Weekly, at(12, 10, 0), weekEvents(), testPlanner())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&PDFRenderer{}).Render(context.Background(), &buf, s))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
