package reminder

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/workday/internal/deadline"
	"github.com/teemow/workday/internal/gmail"
	"github.com/teemow/workday/internal/store"
	"github.com/teemow/workday/internal/tasks"
)

type fakeMailbox struct {
	messages []gmail.Message
	err      error
	queries  []string
}

func (f *fakeMailbox) ListMessages(_ context.Context, query string, maxResults int64) ([]gmail.Message, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if int64(len(f.messages)) > maxResults {
		return f.messages[:maxResults], nil
	}
	return f.messages, nil
}

type fakeTasks struct {
	created []tasks.TaskInput
	lists   []string
	err     error
}

func (f *fakeTasks) CreateTask(_ context.Context, listID string, input tasks.TaskInput) (*tasks.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lists = append(f.lists, listID)
	f.created = append(f.created, input)
	return &tasks.Task{ID: "task", Title: input.Title}, nil
}

type fakeMailer struct {
	sent []*gmail.EmailMessage
	err  error
}

func (f *fakeMailer) SendEmail(_ context.Context, msg *gmail.EmailMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return "sent", nil
}

var pollNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	mailbox *fakeMailbox
	tasks   *fakeTasks
	mailer  *fakeMailer
	store   *store.Memory
	logs    *bytes.Buffer
	gen     *Generator
}

func newFixture(t *testing.T, msgs ...gmail.Message) *fixture {
	t.Helper()
	f := &fixture{
		mailbox: &fakeMailbox{messages: msgs},
		tasks:   &fakeTasks{},
		mailer:  &fakeMailer{},
		store:   store.NewMemory(),
		logs:    &bytes.Buffer{},
	}

	extractor := deadline.NewExtractor(deadline.MonthFirst, time.UTC)
	extractor.Now = func() time.Time { return pollNow }

	gen, err := New(Deps{
		Messages:  f.mailbox,
		Tasks:     f.tasks,
		Mailer:    f.mailer,
		Store:     f.store,
		Extractor: extractor,
		Matcher:   deadline.NewMatcher([]string{"deadline", "due", "reminder", "meeting set-up"}),
		Logger:    slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}, Options{
		DaysBefore:  1,
		NotifyEmail: "me@example.com",
		Account:     "work",
	})
	require.NoError(t, err)
	f.gen = gen
	return f
}

func TestPoll_CreatesReminder(t *testing.T) {
	f := newFixture(t, gmail.Message{
		ID:      "m1",
		Subject: "Report deadline",
		Snippet: "Please send the report",
		Body:    "The report is due on 03/14/2025, thanks.",
	})

	res, err := f.gen.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 1, Matched: 1, Created: 1}, res)

	require.Len(t, f.tasks.created, 1)
	task := f.tasks.created[0]
	assert.Equal(t, "Deadline: Report deadline", task.Title)
	assert.Equal(t, "Reminder for: Report deadline\nDeadline: March 14, 2025", task.Notes)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), task.Due)
	assert.Equal(t, []string{tasks.DefaultTaskList}, f.tasks.lists)

	require.Len(t, f.mailer.sent, 1)
	mail := f.mailer.sent[0]
	assert.Equal(t, []string{"me@example.com"}, mail.To)
	assert.Equal(t, "Reminder: Deadline: Report deadline", mail.Subject)
	assert.Contains(t, mail.Body, "Deadline: Friday, March 14, 2025")
	assert.Contains(t, mail.Body, "You will be reminded on: Thursday, March 13, 2025")

	seen, err := f.store.Seen(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, seen)
	assert.Equal(t, int64(1), f.gen.TotalCreated())
	assert.Equal(t, []string{DefaultQuery}, f.mailbox.queries)
}

func TestPoll_ProcessesMessageOnce(t *testing.T) {
	f := newFixture(t, gmail.Message{ID: "m1", Subject: "Deadline 2025-04-01"})

	_, err := f.gen.Poll(context.Background())
	require.NoError(t, err)
	res, err := f.gen.Poll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{}, res)
	assert.Len(t, f.tasks.created, 1)
}

func TestPoll_KeywordWithoutDate(t *testing.T) {
	f := newFixture(t,
		gmail.Message{ID: "past", Subject: "Deadline was 2025-01-01"},
		gmail.Message{ID: "none", Subject: "Reminder: call Bob"},
	)

	res, err := f.gen.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 2, Matched: 2}, res)
	assert.Empty(t, f.tasks.created)
	assert.Empty(t, f.mailer.sent)

	// Keyword matches are recorded even without a date.
	assert.Equal(t, 2, f.store.Len())
}

func TestPoll_NoKeywordIsNotRecorded(t *testing.T) {
	f := newFixture(t, gmail.Message{
		ID:      "m1",
		Subject: "Lunch on 03/20/2025",
		Body:    "The deadline is mentioned only in the body",
	})

	res, err := f.gen.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 1}, res)
	assert.Equal(t, 0, f.store.Len())
}

func TestPoll_TaskFailureIsRetried(t *testing.T) {
	f := newFixture(t, gmail.Message{ID: "m1", Subject: "Due 2025-05-01"})
	f.tasks.err = errors.New("quota exceeded")

	res, err := f.gen.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 1, Matched: 1, Failed: 1}, res)
	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.mailer.sent)

	f.tasks.err = nil
	res, err = f.gen.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, f.store.Len())
}

func TestPoll_MailFailureStillRecords(t *testing.T) {
	f := newFixture(t, gmail.Message{ID: "m1", Subject: "Due 2025-05-01"})
	f.mailer.err = errors.New("smtp down")

	res, err := f.gen.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Checked: 1, Matched: 1, Created: 1, Failed: 1}, res)
	assert.Equal(t, 1, f.store.Len())
}

func TestPoll_ListError(t *testing.T) {
	f := newFixture(t)
	f.mailbox.err = errors.New("unauthorized")

	_, err := f.gen.Poll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
	assert.Error(t, f.gen.Job(context.Background()))
}

func TestPoll_StatusLine(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 10; i++ {
		_, err := f.gen.Poll(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, 1, strings.Count(f.logs.String(), "checked emails"))
	assert.Contains(t, f.logs.String(), "polls=10")
	assert.Contains(t, f.logs.String(), "account=work")
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Deps{}, Options{NotifyEmail: "me@example.com"})
	assert.Error(t, err)

	f := newFixture(t)
	_, err = New(f.gen.deps, Options{})
	assert.Error(t, err)
}

func TestReminder(t *testing.T) {
	long := strings.Repeat("é", 60)
	r := NewReminder(long, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 3)

	assert.Equal(t, "Deadline: "+strings.Repeat("é", 50), r.Title())
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), r.RemindOn)
	assert.True(t, strings.HasPrefix(r.EmailBody(), "This is an automated reminder.\n\nSubject: "+long+"\n"))
}
