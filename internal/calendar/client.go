package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/workday/internal/google"
	"github.com/teemow/workday/internal/instrumentation"
)

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	account string // The account this client is associated with
	metrics *instrumentation.Metrics
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Calendar client with OAuth2 authentication for a specific account.
// The OAuth token is retrieved from the provided token provider.
func NewClientForAccount(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account, tokenProvider)
	if err != nil {
		return nil, err
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc, account: account}, nil
}

// WithMetrics records every API call of the client on m.
func (c *Client) WithMetrics(m *instrumentation.Metrics) *Client {
	c.metrics = m
	return c
}

// NewClientWithService wraps an existing Calendar service.
func NewClientWithService(svc *calendar.Service, account string) *Client {
	return &Client{svc: svc, account: account}
}

// ListEvents lists the events of a calendar that overlap [timeMin, timeMax).
// Recurring events are expanded into single instances and cancelled
// instances are skipped. All result pages are fetched.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]EventSummary, error) {
	var summaries []EventSummary
	pageToken := ""
	for {
		call := c.svc.Events.List(calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(250)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var events *calendar.Events
		err := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceCalendar, instrumentation.OperationList,
			func(ctx context.Context) error {
				var err error
				events, err = call.Context(ctx).Do()
				return err
			})
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		for _, event := range events.Items {
			if event.Status == "cancelled" {
				continue
			}
			summary := toEventSummary(event)
			if !summary.hasBounds() {
				continue
			}
			summaries = append(summaries, summary)
		}

		if events.NextPageToken == "" {
			return summaries, nil
		}
		pageToken = events.NextPageToken
	}
}

// ListCalendars lists all calendars accessible to the user
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	var list *calendar.CalendarList
	err := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceCalendar, instrumentation.OperationList,
		func(ctx context.Context) error {
			var err error
			list, err = c.svc.CalendarList.List().Context(ctx).Do()
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var calendars []CalendarInfo
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}

	return calendars, nil
}

// QueryFreeBusy returns the busy ranges of calendars in a time range. Any
// calendar the user can see the free/busy state of works, including other
// people's primary calendars addressed by email.
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}

	var result *calendar.FreeBusyResponse
	err := instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceCalendar, instrumentation.OperationQuery,
		func(ctx context.Context) error {
			var err error
			result, err = c.svc.Freebusy.Query(query).Context(ctx).Do()
			return err
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	var infos []FreeBusyInfo
	for _, calID := range calendarIDs {
		cal, ok := result.Calendars[calID]
		if !ok {
			continue
		}
		info := FreeBusyInfo{Calendar: calID}

		for _, busy := range cal.Busy {
			start, err := time.Parse(time.RFC3339, busy.Start)
			if err != nil {
				continue
			}
			end, err := time.Parse(time.RFC3339, busy.End)
			if err != nil {
				continue
			}
			info.Busy = append(info.Busy, TimeRange{Start: start, End: end})
		}

		for _, e := range cal.Errors {
			info.Errors = append(info.Errors, e.Reason)
		}

		infos = append(infos, info)
	}

	return infos, nil
}

// Source returns an EventSource reading calendarID.
func (c *Client) Source(calendarID string) EventSource {
	return &googleSource{client: c, calendarID: calendarID}
}

type googleSource struct {
	client     *Client
	calendarID string
}

func (s *googleSource) Events(ctx context.Context, start, end time.Time) ([]EventSummary, error) {
	return s.client.ListEvents(ctx, s.calendarID, start, end)
}
