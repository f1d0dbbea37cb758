package deadline

import (
	"errors"
	"strings"
	"time"
)

// ErrNoDate is returned by First when text contains no usable date.
var ErrNoDate = errors.New("no deadline date found")

// Extractor runs a parser pipeline and keeps dates that have not passed.
type Extractor struct {
	Parsers  []Parser
	Order    Order
	Location *time.Location
	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// NewExtractor returns an extractor using DefaultParsers.
func NewExtractor(order Order, loc *time.Location) *Extractor {
	return &Extractor{
		Parsers:  DefaultParsers(),
		Order:    order,
		Location: loc,
	}
}

// Extract returns the distinct dates found in text that are not before now,
// grouped by parser in pipeline order and by position within each parser.
// A date is midnight of its day, so today's date already counts as past.
func (e *Extractor) Extract(text string) []Match {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	loc := e.Location
	if loc == nil {
		loc = time.Local
	}

	var (
		out  []Match
		seen = make(map[time.Time]bool)
	)
	for _, p := range e.Parsers {
		for _, m := range p.Parse(text, e.Order, loc) {
			if m.Date.Before(now) || seen[m.Date] {
				continue
			}
			seen[m.Date] = true
			out = append(out, m)
		}
	}
	return out
}

// First returns the first date Extract would report.
func (e *Extractor) First(text string) (Match, error) {
	matches := e.Extract(text)
	if len(matches) == 0 {
		return Match{}, ErrNoDate
	}
	return matches[0], nil
}

// Matcher reports whether text mentions one of its keywords, ignoring case.
type Matcher struct {
	keywords []string
}

// NewMatcher builds a matcher. Blank keywords are ignored.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			m.keywords = append(m.keywords, k)
		}
	}
	return m
}

// Match returns the first keyword found in any of texts.
func (m *Matcher) Match(texts ...string) (string, bool) {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, k := range m.keywords {
			if strings.Contains(lower, k) {
				return k, true
			}
		}
	}
	return "", false
}
