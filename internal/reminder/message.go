package reminder

import (
	"fmt"
	"time"
)

const (
	noteDateLayout  = "January 02, 2006"
	emailDateLayout = "Monday, January 02, 2006"
)

// Reminder is the task and notification derived from one deadline mail.
type Reminder struct {
	// Subject is the subject of the mail the deadline was found in.
	Subject  string
	Deadline time.Time
	// RemindOn is the deadline moved back by the configured number of days.
	RemindOn time.Time
}

// NewReminder builds the reminder for a deadline.
func NewReminder(subject string, deadline time.Time, daysBefore int) Reminder {
	return Reminder{
		Subject:  subject,
		Deadline: deadline,
		RemindOn: deadline.AddDate(0, 0, -daysBefore),
	}
}

// Title is the task title: the subject cut to 50 characters behind
// "Deadline: ".
func (r Reminder) Title() string {
	subject := []rune(r.Subject)
	if len(subject) > subjectLimit {
		subject = subject[:subjectLimit]
	}
	return "Deadline: " + string(subject)
}

// Notes is the task body.
func (r Reminder) Notes() string {
	return fmt.Sprintf("Reminder for: %s\nDeadline: %s", r.Subject, r.Deadline.Format(noteDateLayout))
}

// EmailSubject is the subject of the notification mail.
func (r Reminder) EmailSubject() string {
	return "Reminder: " + r.Title()
}

// EmailBody is the text of the notification mail.
func (r Reminder) EmailBody() string {
	return fmt.Sprintf(`This is an automated reminder.

Subject: %s
Deadline: %s

You will be reminded on: %s

This reminder was automatically created by workday.
`, r.Subject, r.Deadline.Format(emailDateLayout), r.RemindOn.Format(emailDateLayout))
}
