package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/teemow/workday/internal/deadline"
	"github.com/teemow/workday/internal/gmail"
	"github.com/teemow/workday/internal/instrumentation"
	"github.com/teemow/workday/internal/logging"
	"github.com/teemow/workday/internal/store"
	"github.com/teemow/workday/internal/tasks"
)

// Defaults applied by New for zero Options fields.
const (
	DefaultQuery       = "in:inbox"
	DefaultMaxMessages = 20
	DefaultStatusEvery = 10

	subjectLimit = 50
)

// Skip reasons recorded on workday_messages_skipped_total.
const (
	reasonProcessed = "processed"
	reasonNoKeyword = "no_keyword"
	reasonNoDate    = "no_date"
)

// MessageSource lists mailbox messages.
type MessageSource interface {
	ListMessages(ctx context.Context, query string, maxResults int64) ([]gmail.Message, error)
}

// TaskCreator creates reminder tasks.
type TaskCreator interface {
	CreateTask(ctx context.Context, taskListID string, input tasks.TaskInput) (*tasks.Task, error)
}

// Mailer sends the reminder notification.
type Mailer interface {
	SendEmail(ctx context.Context, msg *gmail.EmailMessage) (string, error)
}

// Options tune a Generator.
type Options struct {
	// Query selects the messages to look at.
	Query       string
	MaxMessages int64
	// DaysBefore is how long before the deadline the reminder date lies.
	DaysBefore int
	TaskList   string
	// NotifyEmail receives the reminder mails.
	NotifyEmail string
	// StatusEvery logs a status line every n polls.
	StatusEvery int64
	// Account labels logs and metrics.
	Account string
}

// Deps are the collaborators of a Generator.
type Deps struct {
	Messages  MessageSource
	Tasks     TaskCreator
	Mailer    Mailer
	Store     store.Store
	Extractor *deadline.Extractor
	Matcher   *deadline.Matcher
	Logger    *slog.Logger
	Metrics   *instrumentation.Metrics
}

// Result summarises one poll.
type Result struct {
	// Checked counts messages not processed by an earlier poll.
	Checked int
	// Matched counts messages mentioning a keyword.
	Matched int
	// Created counts reminder tasks created.
	Created int
	// Failed counts messages whose task or notification failed.
	Failed int
}

// Generator polls a mailbox and creates reminders.
type Generator struct {
	deps Deps
	opts Options

	polls   atomic.Int64
	created atomic.Int64
}

// New validates deps and applies option defaults.
func New(deps Deps, opts Options) (*Generator, error) {
	if deps.Messages == nil || deps.Tasks == nil || deps.Mailer == nil {
		return nil, errors.New("reminder: message source, task creator and mailer are required")
	}
	if deps.Store == nil || deps.Extractor == nil || deps.Matcher == nil {
		return nil, errors.New("reminder: store, extractor and matcher are required")
	}
	if opts.NotifyEmail == "" {
		return nil, errors.New("reminder: notify address is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Logger = logging.WithOperation(deps.Logger, instrumentation.JobReminders)
	if opts.Account != "" {
		deps.Logger = logging.WithAccount(deps.Logger, opts.Account)
	}

	if opts.Query == "" {
		opts.Query = DefaultQuery
	}
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = DefaultMaxMessages
	}
	if opts.DaysBefore < 0 {
		opts.DaysBefore = 0
	}
	if opts.StatusEvery <= 0 {
		opts.StatusEvery = DefaultStatusEvery
	}
	if opts.TaskList == "" {
		opts.TaskList = tasks.DefaultTaskList
	}

	return &Generator{deps: deps, opts: opts}, nil
}

// TotalCreated returns the reminders created since the generator started.
func (g *Generator) TotalCreated() int64 {
	return g.created.Load()
}

// Poll checks the mailbox once. Failures of single messages are logged and
// counted in the result; only a failing listing aborts the poll.
func (g *Generator) Poll(ctx context.Context) (Result, error) {
	ctx, span := instrumentation.StartJobSpan(ctx, instrumentation.JobReminders, g.opts.Account)
	defer span.End()

	var res Result
	polls := g.polls.Add(1)

	msgs, err := g.deps.Messages.ListMessages(ctx, g.opts.Query, g.opts.MaxMessages)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		g.deps.Metrics.RecordPollRun(ctx, instrumentation.JobReminders, instrumentation.StatusError, g.opts.Account)
		return res, fmt.Errorf("failed to list messages: %w", err)
	}

	for _, m := range msgs {
		if ctx.Err() != nil {
			break
		}
		g.handle(ctx, m, &res)
	}

	g.deps.Metrics.RecordPollRun(ctx, instrumentation.JobReminders, instrumentation.StatusSuccess, g.opts.Account)
	if polls%g.opts.StatusEvery == 0 {
		g.deps.Logger.Info("checked emails",
			slog.Int64("polls", polls),
			slog.Int64("reminders_created", g.TotalCreated()))
	}
	return res, ctx.Err()
}

func (g *Generator) handle(ctx context.Context, m gmail.Message, res *Result) {
	logger := g.deps.Logger.With(logging.MessageID(m.ID))

	seen, err := g.deps.Store.Seen(ctx, m.ID)
	if err != nil {
		res.Failed++
		logger.Warn("failed to read processed state", logging.Err(err))
		return
	}
	if seen {
		g.skip(ctx, reasonProcessed)
		return
	}
	res.Checked++

	keyword, ok := g.deps.Matcher.Match(m.Subject, m.Snippet)
	if !ok {
		g.skip(ctx, reasonNoKeyword)
		return
	}
	res.Matched++

	subject := m.Subject
	if subject == "" {
		subject = "No Subject"
	}
	logger.Info("found potential reminder", slog.String("keyword", keyword), slog.String("subject", subject))

	match, err := g.deps.Extractor.First(m.Text())
	if err != nil {
		logger.Info("no date found in email, skipping", logging.Status(logging.StatusSkipped))
		g.skip(ctx, reasonNoDate)
		g.markProcessed(ctx, logger, m.ID)
		return
	}

	r := NewReminder(subject, match.Date, g.opts.DaysBefore)
	logger = logger.With(slog.String("deadline", r.Deadline.Format(time.DateOnly)))

	_, err = g.deps.Tasks.CreateTask(ctx, g.opts.TaskList, tasks.TaskInput{
		Title: r.Title(),
		Notes: r.Notes(),
		Due:   r.Deadline,
	})
	if err != nil {
		// Left unmarked so the next poll retries.
		res.Failed++
		g.deps.Metrics.RecordReminderCreated(ctx, instrumentation.StatusError)
		logger.Error("failed to create reminder task", logging.Err(err), logging.Status(logging.StatusError))
		return
	}
	res.Created++
	g.created.Add(1)
	g.deps.Metrics.RecordReminderCreated(ctx, instrumentation.StatusSuccess)
	logger.Info("reminder task created", logging.Status(logging.StatusSuccess))

	_, err = g.deps.Mailer.SendEmail(ctx, &gmail.EmailMessage{
		To:      []string{g.opts.NotifyEmail},
		Subject: r.EmailSubject(),
		Body:    r.EmailBody(),
	})
	if err != nil {
		res.Failed++
		logger.Error("failed to send reminder email", logging.Err(err))
	} else {
		logger.Info("reminder email sent")
	}

	g.markProcessed(ctx, logger, m.ID)
}

func (g *Generator) markProcessed(ctx context.Context, logger *slog.Logger, id string) {
	if err := g.deps.Store.Mark(ctx, id); err != nil {
		logger.Warn("failed to record processed message", logging.Err(err))
	}
}

func (g *Generator) skip(ctx context.Context, reason string) {
	g.deps.Metrics.RecordMessageSkipped(ctx, instrumentation.JobReminders, reason)
}

// Job adapts Poll to scheduler.Job.
func (g *Generator) Job(ctx context.Context) error {
	res, err := g.Poll(ctx)
	if err != nil {
		return err
	}
	g.deps.Logger.Debug("poll finished",
		slog.Int("checked", res.Checked),
		slog.Int("matched", res.Matched),
		slog.Int("created", res.Created),
		slog.Int("failed", res.Failed))
	return nil
}
