package deadline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Order resolves numeric dates whose first two fields could both be a month.
type Order int

const (
	// MonthFirst reads 03/04/2025 as March 4.
	MonthFirst Order = iota
	// DayFirst reads 03/04/2025 as 3 April.
	DayFirst
)

// ParseOrder accepts "mdy" or "dmy".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "mdy":
		return MonthFirst, nil
	case "dmy":
		return DayFirst, nil
	default:
		return MonthFirst, fmt.Errorf("unknown date order %q", s)
	}
}

func (o Order) String() string {
	if o == DayFirst {
		return "dmy"
	}
	return "mdy"
}

// Match is a date found in text.
type Match struct {
	// Date is midnight of the matched calendar date.
	Date time.Time
	// Text is the matched substring.
	Text string
	// Offset is the byte offset of Text in the input.
	Offset int
	// Parser is the name of the parser that produced the match.
	Parser string
}

// Parser recognises one written form of a date.
type Parser interface {
	Name() string
	// Parse returns every valid date in text, in order of appearance.
	// Dates that do not exist, such as February 30, are skipped.
	Parse(text string, order Order, loc *time.Location) []Match
}

type ymd struct {
	year  int
	month int
	day   int
}

type regexParser struct {
	name    string
	re      *regexp.Regexp
	resolve func(groups []string, order Order) (ymd, bool)
}

func (p *regexParser) Name() string {
	return p.name
}

func (p *regexParser) Parse(text string, order Order, loc *time.Location) []Match {
	if loc == nil {
		loc = time.Local
	}
	var matches []Match
	for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
		groups := make([]string, 0, len(idx)/2-1)
		for i := 2; i < len(idx); i += 2 {
			groups = append(groups, text[idx[i]:idx[i+1]])
		}
		d, ok := p.resolve(groups, order)
		if !ok {
			continue
		}
		date, ok := makeDate(d, loc)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			Date:   date,
			Text:   text[idx[0]:idx[1]],
			Offset: idx[0],
			Parser: p.name,
		})
	}
	return matches
}

const monthAlternation = `(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*`

// Numeric parses dates such as 3/14/2025 or 14-03-25. Two-digit years are in
// the 2000s.
func Numeric() Parser {
	return &regexParser{
		name:    "numeric",
		re:      regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`),
		resolve: resolveNumeric,
	}
}

// ISO parses year-first dates such as 2025-03-14 or 2025/3/14.
func ISO() Parser {
	return &regexParser{
		name: "iso",
		re:   regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`),
		resolve: func(g []string, _ Order) (ymd, bool) {
			return ymd{year: atoi(g[0]), month: atoi(g[1]), day: atoi(g[2])}, true
		},
	}
}

// MonthName parses dates such as "Mar 14, 2025" or "March 14 2025".
func MonthName() Parser {
	return &regexParser{
		name: "month-name",
		re:   regexp.MustCompile(`(?i)\b` + monthAlternation + ` (\d{1,2}),? (\d{4})\b`),
		resolve: func(g []string, _ Order) (ymd, bool) {
			return ymd{year: atoi(g[2]), month: monthNumber(g[0]), day: atoi(g[1])}, true
		},
	}
}

// DayMonthName parses dates such as "14 March 2025".
func DayMonthName() Parser {
	return &regexParser{
		name: "day-month-name",
		re:   regexp.MustCompile(`(?i)\b(\d{1,2}) ` + monthAlternation + ` (\d{4})\b`),
		resolve: func(g []string, _ Order) (ymd, bool) {
			return ymd{year: atoi(g[2]), month: monthNumber(g[1]), day: atoi(g[0])}, true
		},
	}
}

// DefaultParsers returns the parsers in their default priority order.
func DefaultParsers() []Parser {
	return []Parser{Numeric(), ISO(), MonthName(), DayMonthName()}
}

func resolveNumeric(g []string, order Order) (ymd, bool) {
	first, second := atoi(g[0]), atoi(g[1])
	year := atoi(g[2])
	if len(g[2]) == 2 {
		year += 2000
	}

	d := ymd{year: year}
	switch {
	case first > 12 && second <= 12:
		d.day, d.month = first, second
	case second > 12 && first <= 12:
		d.month, d.day = first, second
	case order == DayFirst:
		d.day, d.month = first, second
	default:
		d.month, d.day = first, second
	}
	return d, true
}

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

func monthNumber(name string) int {
	if len(name) < 3 {
		return 0
	}
	return months[strings.ToLower(name[:3])]
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// makeDate rejects dates that time.Date would normalise into another day.
func makeDate(d ymd, loc *time.Location) (time.Time, bool) {
	if d.month < 1 || d.month > 12 || d.day < 1 || d.year < 1 {
		return time.Time{}, false
	}
	t := time.Date(d.year, time.Month(d.month), d.day, 0, 0, 0, 0, loc)
	if t.Year() != d.year || int(t.Month()) != d.month || t.Day() != d.day {
		return time.Time{}, false
	}
	return t, true
}
