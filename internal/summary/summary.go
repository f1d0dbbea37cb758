package summary

import (
	"fmt"
	"time"

	"github.com/teemow/workday/internal/calendar"
	"github.com/teemow/workday/internal/freetime"
)

const (
	noSubject  = "No Subject"
	noLocation = "No Location"
	timeLayout = "03:04 PM"
)

// Meeting is one row of the report.
type Meeting struct {
	Start     time.Time
	End       time.Time
	AllDay    bool
	Subject   string
	Location  string
	Attendees string
}

// Time renders the meeting time as "09:00 AM - 10:00 AM" or "All day".
func (m Meeting) Time() string {
	if m.AllDay {
		return "All day"
	}
	return m.Start.Format(timeLayout) + " - " + m.End.Format(timeLayout)
}

// Hours returns the meeting length. All-day entries count as zero.
func (m Meeting) Hours() float64 {
	if m.AllDay {
		return 0
	}
	return m.End.Sub(m.Start).Hours()
}

// DayMeetings groups the meetings starting on one date.
type DayMeetings struct {
	Date      time.Time
	Meetings  []Meeting
	FreeHours float64
}

// Heading renders the day as "Monday, March 10, 2025 (2 meetings)".
func (d DayMeetings) Heading() string {
	return fmt.Sprintf("%s (%s)", d.Date.Format("Monday, January 02, 2006"), plural(len(d.Meetings), "meeting"))
}

// Summary is a meeting report over [Start, End).
type Summary struct {
	Period Period
	Start  time.Time
	End    time.Time
	// Days lists only dates with at least one meeting, ascending.
	Days          []DayMeetings
	TotalMeetings int
	TotalHours    float64
	// AveragePerDay divides TotalMeetings by the days in the range.
	AveragePerDay float64
	// FreeHours is the free working time over the whole range.
	FreeHours float64
}

// LastDay returns the last date included in the summary.
func (s Summary) LastDay() time.Time {
	return s.End.AddDate(0, 0, -1)
}

// PeriodLabel renders "March 10, 2025 - March 16, 2025".
func (s Summary) PeriodLabel() string {
	const layout = "January 02, 2006"
	return s.Start.Format(layout) + " - " + s.LastDay().Format(layout)
}

// Build collects the events starting inside the period containing now. The
// planner supplies work hours, location and minimum gap for free time;
// all-day events never block free time.
func Build(p Period, now time.Time, events []calendar.EventSummary, planner freetime.Planner) (Summary, error) {
	loc := planner.Location
	if loc == nil {
		loc = time.Local
	}
	start, end, err := Range(p, now, loc)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{Period: p, Start: start, End: end}

	sorted := append([]calendar.EventSummary(nil), events...)
	calendar.SortByStart(sorted)

	byDate := map[string]int{}
	for _, e := range sorted {
		es, ee := e.InLocation(loc)
		if es.Before(start) || !es.Before(end) {
			continue
		}
		m := Meeting{
			Start:     es,
			End:       ee,
			AllDay:    e.AllDay,
			Subject:   orDefault(e.Summary, noSubject),
			Location:  orDefault(e.Location, noLocation),
			Attendees: e.AttendeeLabel(),
		}
		y, mo, d := es.Date()
		date := time.Date(y, mo, d, 0, 0, 0, 0, loc)
		key := date.Format(time.DateOnly)
		i, ok := byDate[key]
		if !ok {
			i = len(s.Days)
			byDate[key] = i
			s.Days = append(s.Days, DayMeetings{Date: date})
		}
		s.Days[i].Meetings = append(s.Days[i].Meetings, m)
		s.TotalMeetings++
		s.TotalHours += m.Hours()
	}

	days := daysBetween(start, end)
	if days > 0 {
		s.AveragePerDay = float64(s.TotalMeetings) / float64(days)
	}

	planner.Location = loc
	report, err := planner.Plan(start, days, calendar.ToFreetimeEvents(events, loc, true))
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute free time: %w", err)
	}
	s.FreeHours = report.TotalHours
	for _, day := range report.Days {
		if i, ok := byDate[day.Window.Day.Format(time.DateOnly)]; ok {
			s.Days[i].FreeHours = day.FreeHours()
		}
	}
	return s, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
