// Package ics reads calendar events from iCalendar (.ics) feeds.
//
// Feeds are parsed with golang-ical and recurring events are expanded with
// rrule-go, honouring EXDATE and RECURRENCE-ID overrides. Source implements
// calendar.EventSource, so ICS subscriptions can replace or complement the
// Google Calendar API as input for the free-time finder and meeting
// summaries.
package ics
