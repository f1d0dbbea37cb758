package tasks

import (
	"time"

	tasks "google.golang.org/api/tasks/v1"
)

// TaskList represents a Google Tasks task list
type TaskList struct {
	ID      string
	Title   string
	Updated time.Time
}

// Task represents a Google Tasks task
type Task struct {
	ID     string
	Title  string
	Notes  string
	Status string // "needsAction" or "completed"
	Due    time.Time
}

// TaskInput represents the input for creating a task
type TaskInput struct {
	Title string
	Notes string
	Due   time.Time
}

// formatDue renders a due date. The Tasks API keeps only the date part, so
// the calendar date of due is sent as midnight UTC.
func formatDue(due time.Time) string {
	y, m, d := due.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

func toTaskList(tl *tasks.TaskList) TaskList {
	if tl == nil {
		return TaskList{}
	}

	result := TaskList{
		ID:    tl.Id,
		Title: tl.Title,
	}
	if t, err := time.Parse(time.RFC3339, tl.Updated); err == nil {
		result.Updated = t
	}
	return result
}

func toTask(t *tasks.Task) Task {
	if t == nil {
		return Task{}
	}

	result := Task{
		ID:     t.Id,
		Title:  t.Title,
		Notes:  t.Notes,
		Status: t.Status,
	}
	if due, err := time.Parse(time.RFC3339, t.Due); err == nil {
		result.Due = due
	}
	return result
}
