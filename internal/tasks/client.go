package tasks

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/teemow/workday/internal/google"
	"github.com/teemow/workday/internal/instrumentation"
)

// DefaultTaskList addresses the user's default task list.
const DefaultTaskList = "@default"

// ErrTaskListNotFound is returned when no task list matches a name or ID.
var ErrTaskListNotFound = errors.New("task list not found")

// Client wraps the Google Tasks service
type Client struct {
	svc     *tasks.Service
	account string // The account this client is associated with
	metrics *instrumentation.Metrics
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Tasks client with OAuth2 authentication for a specific account.
func NewClientForAccount(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForAccount(ctx, account, tokenProvider)
	if err != nil {
		return nil, err
	}

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return NewClientWithService(svc, account), nil
}

// NewClientWithService wraps an existing Tasks service.
func NewClientWithService(svc *tasks.Service, account string) *Client {
	return &Client{svc: svc, account: account}
}

// WithMetrics records every API call of the client on m.
func (c *Client) WithMetrics(m *instrumentation.Metrics) *Client {
	c.metrics = m
	return c
}

func (c *Client) track(ctx context.Context, operation string, fn func(context.Context) error) error {
	return instrumentation.TrackGoogleAPI(ctx, c.metrics, instrumentation.ServiceTasks, operation, fn)
}

// ListTaskLists lists all task lists for the authenticated user
func (c *Client) ListTaskLists(ctx context.Context) ([]TaskList, error) {
	var taskLists []TaskList
	pageToken := ""
	for {
		call := c.svc.Tasklists.List().MaxResults(100)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var result *tasks.TaskLists
		err := c.track(ctx, instrumentation.OperationList, func(ctx context.Context) error {
			var err error
			result, err = call.Context(ctx).Do()
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list task lists: %w", err)
		}

		for _, tl := range result.Items {
			taskLists = append(taskLists, toTaskList(tl))
		}
		if result.NextPageToken == "" {
			return taskLists, nil
		}
		pageToken = result.NextPageToken
	}
}

// ResolveTaskList returns the ID of the task list whose ID or title equals
// nameOrID. DefaultTaskList and the empty string resolve to DefaultTaskList
// without an API call.
func (c *Client) ResolveTaskList(ctx context.Context, nameOrID string) (string, error) {
	if nameOrID == "" || nameOrID == DefaultTaskList {
		return DefaultTaskList, nil
	}

	lists, err := c.ListTaskLists(ctx)
	if err != nil {
		return "", err
	}
	for _, tl := range lists {
		if tl.ID == nameOrID {
			return tl.ID, nil
		}
	}
	for _, tl := range lists {
		if tl.Title == nameOrID {
			return tl.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrTaskListNotFound, nameOrID)
}

// CreateTask creates a new task in a task list
func (c *Client) CreateTask(ctx context.Context, taskListID string, input TaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, errors.New("task title is required")
	}
	if taskListID == "" {
		taskListID = DefaultTaskList
	}

	task := &tasks.Task{
		Title: input.Title,
		Notes: input.Notes,
	}
	if !input.Due.IsZero() {
		task.Due = formatDue(input.Due)
	}

	var created *tasks.Task
	err := c.track(ctx, instrumentation.OperationCreate, func(ctx context.Context) error {
		var err error
		created, err = c.svc.Tasks.Insert(taskListID, task).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	result := toTask(created)
	return &result, nil
}
