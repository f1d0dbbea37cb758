package ics

import (
	"errors"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// vevent is a parsed VEVENT before recurrence expansion.
type vevent struct {
	UID       string
	Summary   string
	Location  string
	Status    string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Attendees []string
	RRule     string
	ExDates   []time.Time
	// RecurrenceID is set on VEVENTs that override one instance of a
	// recurring event.
	RecurrenceID *time.Time
}

// parse reads every VEVENT of an iCalendar stream. Events without a usable
// start are skipped.
func parse(r io.Reader) ([]vevent, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, err
	}

	var events []vevent
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (vevent, error) {
	var out vevent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		out.Status = strings.ToUpper(strings.TrimSpace(p.Value))
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, errors.New("missing DTSTART")
	}
	out.AllDay = isDateValue(dtStart)

	start, err := ve.GetStartAt()
	if err != nil {
		if start, err = parseICSTime(dtStart.Value); err != nil {
			return out, err
		}
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = time.Time{}
		if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
			end, _ = parseICSTime(p.Value)
		}
	}

	if out.AllDay {
		start = utcDate(start)
		if end.IsZero() || !end.After(start) {
			end = start.AddDate(0, 0, 1)
		} else {
			end = utcDate(end)
		}
	} else if end.IsZero() {
		// RFC 5545: a DTSTART without DTEND or DURATION lasts zero time.
		end = start
	}
	out.Start, out.End = start, end

	for _, a := range ve.Attendees() {
		out.Attendees = append(out.Attendees, a.Email())
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RRule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTimeIn(strings.TrimSpace(part), tzid(p, start.Location())); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}
	if p := ve.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); p != nil {
		if t, err := parseICSTimeIn(p.Value, tzid(p, start.Location())); err == nil {
			out.RecurrenceID = &t
		}
	}

	return out, nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// tzid resolves the TZID parameter of p, falling back to def.
func tzid(p *ical.IANAProperty, def *time.Location) *time.Location {
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		if loc, err := time.LoadLocation(tzs[0]); err == nil {
			return loc
		}
	}
	return def
}

func parseICSTime(v string) (time.Time, error) {
	return parseICSTimeIn(v, time.UTC)
}

// parseICSTimeIn parses DATE, floating DATE-TIME (in loc) and UTC DATE-TIME
// values.
func parseICSTimeIn(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, time.UTC)
	}
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
