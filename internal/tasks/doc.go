// Package tasks creates reminder tasks in Google Tasks.
//
// Only the calls the reminder generator needs are wrapped: listing and
// resolving task lists, and inserting tasks with a due date.
package tasks
