// Package reminder turns deadline mails into Google Tasks reminders.
//
// Each poll lists the most recent inbox messages, keeps those mentioning a
// reminder keyword, extracts the first future date and creates a task due on
// that date together with a notification mail to the account owner.
// Processed message IDs are kept in a store.Store so a message is handled
// once.
package reminder
