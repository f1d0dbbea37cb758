// Package calendar reads events from the Google Calendar API.
//
// Events are exposed through the EventSource interface so the free-time
// finder and the meeting summary work the same way for Google calendars and
// ICS feeds. ToFreetimeEvents normalizes events into one reference time zone
// before they reach the free-time computation.
//
// Example usage:
//
//	client, err := calendar.NewClientForAccount(ctx, "default", google.NewFileTokenProvider())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List upcoming events
//	events, err := client.ListEvents(ctx, "primary", time.Now(), time.Now().AddDate(0, 0, 7))
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
