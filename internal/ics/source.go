package ics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/teemow/workday/internal/calendar"
)

// maxFeedSize bounds how much of a feed is read. Larger feeds are an error.
var maxFeedSize int64 = 20 << 20

// Source reads events from iCalendar feeds. A feed is an http(s) or webcal
// URL or a local file path.
type Source struct {
	Feeds      []string
	HTTPClient *http.Client
}

var _ calendar.EventSource = (*Source)(nil)

// NewSource creates a source for feeds using a client with a 30s timeout.
func NewSource(feeds []string) *Source {
	return &Source{
		Feeds:      feeds,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Events fetches every feed and returns the instances overlapping
// [start, end).
func (s *Source) Events(ctx context.Context, start, end time.Time) ([]calendar.EventSummary, error) {
	var all []calendar.EventSummary
	for _, feed := range s.Feeds {
		data, err := s.fetch(ctx, feed)
		if err != nil {
			return nil, err
		}
		events, err := parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ICS feed %s: %w", redact(feed), err)
		}
		occ, err := expand(events, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to expand ICS feed %s: %w", redact(feed), err)
		}
		for _, o := range occ {
			all = append(all, toEventSummary(o))
		}
	}
	calendar.SortByStart(all)
	return all, nil
}

func (s *Source) fetch(ctx context.Context, feed string) ([]byte, error) {
	if strings.HasPrefix(feed, "webcal://") {
		feed = "https://" + strings.TrimPrefix(feed, "webcal://")
	}
	if !strings.HasPrefix(feed, "http://") && !strings.HasPrefix(feed, "https://") {
		data, err := os.ReadFile(feed)
		if err != nil {
			return nil, fmt.Errorf("failed to read ICS file: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ICS request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ICS feed %s: %w", redact(feed), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch ICS feed %s: unexpected status %s", redact(feed), resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read ICS feed %s: %w", redact(feed), err)
	}
	if int64(len(data)) > maxFeedSize {
		return nil, fmt.Errorf("ICS feed %s exceeds %d bytes", redact(feed), maxFeedSize)
	}
	return data, nil
}

func toEventSummary(o occurrence) calendar.EventSummary {
	e := calendar.EventSummary{
		ID:       o.event.UID,
		Summary:  o.event.Summary,
		Location: o.event.Location,
		Start:    o.start,
		End:      o.end,
		AllDay:   o.event.AllDay,
		Status:   strings.ToLower(o.event.Status),
	}
	if o.event.RRule != "" {
		e.ID = o.event.UID + "_" + o.start.UTC().Format("20060102T150405Z")
	}
	for _, a := range o.event.Attendees {
		e.Attendees = append(e.Attendees, calendar.AttendeeInfo{Email: a})
	}
	return e
}

// redact drops the query string of feed URLs, which often carries a secret
// token.
func redact(feed string) string {
	if i := strings.IndexByte(feed, '?'); i >= 0 {
		return feed[:i] + "?…"
	}
	return feed
}
