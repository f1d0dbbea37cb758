package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewClientWithService(svc, "test")
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListEvents_Pagination(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events"), r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))

		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(t, w, map[string]interface{}{
				"items": []map[string]interface{}{
					{
						"id":      "1",
						"summary": "Standup",
						"status":  "confirmed",
						"start":   map[string]string{"dateTime": "2025-03-11T09:00:00Z"},
						"end":     map[string]string{"dateTime": "2025-03-11T09:15:00Z"},
					},
					{
						"id":     "2",
						"status": "cancelled",
					},
					{
						"id":      "broken",
						"summary": "Unparseable",
						"start":   map[string]string{"dateTime": "next tuesday"},
						"end":     map[string]string{"dateTime": "2025-03-11T10:00:00Z"},
					},
				},
				"nextPageToken": "page-2",
			})
			return
		}
		writeJSON(t, w, map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id":      "3",
					"summary": "Holiday",
					"start":   map[string]string{"date": "2025-03-12"},
					"end":     map[string]string{"date": "2025-03-13"},
				},
			},
		})
	})

	from := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(context.Background(), "primary", from, from.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, events, 2)
	assert.Equal(t, "Standup", events[0].Summary)
	assert.Equal(t, 15*time.Minute, events[0].Duration())
	assert.False(t, events[0].AllDay)
	assert.Equal(t, "Holiday", events[1].Summary)
	assert.True(t, events[1].AllDay)
}

func TestListEvents_Error(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	})

	_, err := client.ListEvents(context.Background(), "primary", time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list events")
}

func TestQueryFreeBusy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(t, w, map[string]interface{}{
			"calendars": map[string]interface{}{
				"a@example.com": map[string]interface{}{
					"busy": []map[string]string{
						{"start": "2025-03-11T10:00:00Z", "end": "2025-03-11T11:00:00Z"},
					},
				},
				"b@example.com": map[string]interface{}{
					"errors": []map[string]string{{"domain": "global", "reason": "notFound"}},
				},
			},
		})
	})

	from := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	infos, err := client.QueryFreeBusy(context.Background(), from, from.Add(24*time.Hour),
		[]string{"a@example.com", "b@example.com"})
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "a@example.com", infos[0].Calendar)
	require.Len(t, infos[0].Busy, 1)
	assert.Equal(t, time.Hour, infos[0].Busy[0].End.Sub(infos[0].Busy[0].Start))
	assert.Equal(t, []string{"notFound"}, infos[1].Errors)

	events := BusyToFreetimeEvents(infos, time.UTC)
	require.Len(t, events, 1)
	assert.Equal(t, "busy: a@example.com", events[0].Label)
}

func TestToEventSummary(t *testing.T) {
	assert.Equal(t, EventSummary{}, toEventSummary(nil))

	got := toEventSummary(&calendar.Event{
		Id:       "x",
		Summary:  "Planning",
		Location: "Room 1",
		Start:    &calendar.EventDateTime{DateTime: "2025-03-11T09:00:00+01:00"},
		End:      &calendar.EventDateTime{DateTime: "2025-03-11T10:30:00+01:00"},
		Attendees: []*calendar.EventAttendee{
			{Email: "a@example.com"},
			{Email: "room@resource.example.com", Resource: true},
			{Email: "b@example.com", Optional: true},
		},
		ConferenceData: &calendar.ConferenceData{
			EntryPoints: []*calendar.EntryPoint{
				{EntryPointType: "phone", Uri: "tel:+1"},
				{EntryPointType: "video", Uri: "https://meet.example.com/abc"},
			},
		},
	})

	assert.Equal(t, "Planning", got.Summary)
	assert.Equal(t, 90*time.Minute, got.Duration())
	assert.Len(t, got.Attendees, 2)
	assert.Equal(t, "2 attendees", got.AttendeeLabel())
	assert.Equal(t, "https://meet.example.com/abc", got.MeetLink)
}

func TestToCalendarInfo(t *testing.T) {
	assert.Equal(t, CalendarInfo{}, toCalendarInfo(nil))
	info := toCalendarInfo(&calendar.CalendarListEntry{Id: "primary", Primary: true, TimeZone: "Europe/Berlin"})
	assert.True(t, info.Primary)
	assert.Equal(t, "Europe/Berlin", info.TimeZone)
}
