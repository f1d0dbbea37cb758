package tasks_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workday/internal/reminder"
	"github.com/teemow/workday/internal/tasks"
	"github.com/teemow/workday/internal/tools/common"
)

// TaskService is the part of the Tasks client the tools use.
type TaskService interface {
	ListTaskLists(ctx context.Context) ([]tasks.TaskList, error)
	ResolveTaskList(ctx context.Context, nameOrID string) (string, error)
	CreateTask(ctx context.Context, taskListID string, input tasks.TaskInput) (*tasks.Task, error)
}

// Env is what the tasks tools work with.
type Env struct {
	Tasks TaskService
	// TaskList is the default list, by title or ID.
	TaskList   string
	DaysBefore int
	// Location interprets deadline dates. Nil means time.Local.
	Location *time.Location
}

var errNoTasks = errors.New("tasks client is not available for this account")

// RegisterTasksTools registers the task tools. create_reminder is only
// registered when readOnly is false. With a nil env.Tasks the tools are
// listed but every call fails.
func RegisterTasksTools(s *mcpserver.MCPServer, env Env, readOnly bool, inst common.Instrumentation) error {
	listTool := mcp.NewTool("tasks_list_task_lists",
		mcp.WithDescription("List all task lists of the account"),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("tasks_list_task_lists", inst, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListTaskLists(ctx, env)
	}))

	if readOnly {
		return nil
	}

	reminderTool := mcp.NewTool("create_reminder",
		mcp.WithDescription("Create a Google Tasks reminder for a deadline"),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("What the deadline is about, used for the task title"),
		),
		mcp.WithString("deadline",
			mcp.Required(),
			mcp.Description("Deadline date (YYYY-MM-DD)"),
		),
		mcp.WithNumber("days_before",
			mcp.Description("Days before the deadline to be reminded (default: configured value)"),
		),
		mcp.WithString("task_list",
			mcp.Description("Task list title or ID (default: configured list)"),
		),
	)
	s.AddTool(reminderTool, common.InstrumentedToolHandler("create_reminder", inst, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateReminder(ctx, request, env)
	}))

	return nil
}

func handleListTaskLists(ctx context.Context, env Env) (*mcp.CallToolResult, error) {
	if env.Tasks == nil {
		return mcp.NewToolResultError(errNoTasks.Error()), nil
	}
	lists, err := env.Tasks.ListTaskLists(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list task lists: %v", err)), nil
	}
	if len(lists) == 0 {
		return mcp.NewToolResultText("No task lists found"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d task list(s):\n\n", len(lists))
	for i, l := range lists {
		fmt.Fprintf(&b, "%d. %s\n   ID: %s\n", i+1, l.Title, l.ID)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func handleCreateReminder(ctx context.Context, request mcp.CallToolRequest, env Env) (*mcp.CallToolResult, error) {
	if env.Tasks == nil {
		return mcp.NewToolResultError(errNoTasks.Error()), nil
	}
	args := request.GetArguments()

	subject := strings.TrimSpace(common.StringArg(args, "subject", ""))
	if subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}

	loc := env.Location
	if loc == nil {
		loc = time.Local
	}
	due, err := time.ParseInLocation(time.DateOnly, common.StringArg(args, "deadline", ""), loc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid deadline format (want YYYY-MM-DD): %v", err)), nil
	}

	daysBefore, err := common.NumberArg(args, "days_before", float64(env.DaysBefore))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if daysBefore < 0 {
		return mcp.NewToolResultError("days_before must not be negative"), nil
	}

	listID, err := env.Tasks.ResolveTaskList(ctx, common.StringArg(args, "task_list", env.TaskList))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve task list: %v", err)), nil
	}

	r := reminder.NewReminder(subject, due, int(daysBefore))
	task, err := env.Tasks.CreateTask(ctx, listID, tasks.TaskInput{
		Title: r.Title(),
		Notes: r.Notes(),
		Due:   r.Deadline,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Reminder created.\n\nTask: %s\nID: %s\nDeadline: %s\nRemind on: %s",
		task.Title, task.ID, r.Deadline.Format("Monday, January 02, 2006"), r.RemindOn.Format("Monday, January 02, 2006"))), nil
}
