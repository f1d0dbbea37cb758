package autoreply

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"text/template"

	"github.com/teemow/workday/internal/config"
	"github.com/teemow/workday/internal/gmail"
	"github.com/teemow/workday/internal/instrumentation"
	"github.com/teemow/workday/internal/logging"
	"github.com/teemow/workday/internal/store"
)

const (
	DefaultQuery       = "in:inbox is:unread"
	DefaultMaxMessages = 20
	DefaultStatusEvery = 10

	// AutoSubmittedHeader marks our replies so other responders stay quiet.
	AutoSubmittedHeader = "Auto-Submitted"
	autoReplied         = "auto-replied"
)

const (
	reasonReplied   = "replied"
	reasonOwn       = "own_address"
	reasonAutomated = "automated"
	reasonNoReply   = "noreply"
	reasonList      = "mailing_list"
)

// MessageSource lists mailbox messages.
type MessageSource interface {
	ListMessages(ctx context.Context, query string, maxResults int64) ([]gmail.Message, error)
}

// Replier answers messages and marks them read.
type Replier interface {
	Reply(ctx context.Context, orig gmail.Message, body string, headers map[string]string) (string, error)
	MarkAsRead(ctx context.Context, messageID string) error
	Address(ctx context.Context) (string, error)
}

// Options tune a Responder.
type Options struct {
	Enabled     bool
	Query       string
	MaxMessages int64
	// Message is a text/template rendered with .SenderName.
	Message     string
	StatusEvery int64
	Account     string
}

// Deps are the collaborators of a Responder.
type Deps struct {
	Messages MessageSource
	Replier  Replier
	Store    store.Store
	Logger   *slog.Logger
	Metrics  *instrumentation.Metrics
}

// Result summarises one poll.
type Result struct {
	// Checked counts messages in threads not answered before.
	Checked int
	Replied int
	// Pending counts messages that would have been answered by a disabled
	// responder.
	Pending int
	Skipped int
	Failed  int
}

// TemplateData is passed to the reply template.
type TemplateData struct {
	SenderName    string
	SenderAddress string
	Subject       string
}

// Responder sends one vacation reply per conversation.
type Responder struct {
	deps Deps
	opts Options
	tmpl *template.Template

	polls   atomic.Int64
	replied atomic.Int64
}

// New validates deps, parses the reply template and applies option defaults.
func New(deps Deps, opts Options) (*Responder, error) {
	if deps.Messages == nil || deps.Replier == nil || deps.Store == nil {
		return nil, errors.New("autoreply: message source, replier and store are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	deps.Logger = logging.WithOperation(deps.Logger, instrumentation.JobAutoReply)
	if opts.Account != "" {
		deps.Logger = logging.WithAccount(deps.Logger, opts.Account)
	}

	if strings.TrimSpace(opts.Message) == "" {
		opts.Message = config.DefaultAutoReplyMessage
	}
	tmpl, err := template.New("autoreply").Option("missingkey=error").Parse(opts.Message)
	if err != nil {
		return nil, fmt.Errorf("autoreply: invalid message template: %w", err)
	}
	if opts.Query == "" {
		opts.Query = DefaultQuery
	}
	if opts.MaxMessages <= 0 {
		opts.MaxMessages = DefaultMaxMessages
	}
	if opts.StatusEvery <= 0 {
		opts.StatusEvery = DefaultStatusEvery
	}

	return &Responder{deps: deps, opts: opts, tmpl: tmpl}, nil
}

// TotalReplied returns the replies sent since the responder started.
func (r *Responder) TotalReplied() int64 {
	return r.replied.Load()
}

// Render renders the reply body for msg.
func (r *Responder) Render(msg gmail.Message) (string, error) {
	name, addr := msg.Sender()
	data := TemplateData{SenderName: name, SenderAddress: addr, Subject: msg.Subject}
	if data.SenderName == "" {
		data.SenderName = addr
	}
	if data.SenderName == "" {
		data.SenderName = "there"
	}
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render reply: %w", err)
	}
	return buf.String(), nil
}

// Poll answers the unread mail once.
func (r *Responder) Poll(ctx context.Context) (Result, error) {
	ctx, span := instrumentation.StartJobSpan(ctx, instrumentation.JobAutoReply, r.opts.Account)
	defer span.End()

	var res Result
	polls := r.polls.Add(1)

	msgs, err := r.deps.Messages.ListMessages(ctx, r.opts.Query, r.opts.MaxMessages)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		r.deps.Metrics.RecordPollRun(ctx, instrumentation.JobAutoReply, instrumentation.StatusError, r.opts.Account)
		return res, fmt.Errorf("failed to list messages: %w", err)
	}

	own, err := r.deps.Replier.Address(ctx)
	if err != nil {
		// Without the own address a reply loop cannot be ruled out.
		instrumentation.SetSpanError(span, err)
		r.deps.Metrics.RecordPollRun(ctx, instrumentation.JobAutoReply, instrumentation.StatusError, r.opts.Account)
		return res, fmt.Errorf("failed to look up own address: %w", err)
	}

	// Threads answered in this poll; a thread may list several unread messages.
	answered := map[string]bool{}
	for _, m := range msgs {
		if ctx.Err() != nil {
			break
		}
		r.handle(ctx, m, own, answered, &res)
	}

	r.deps.Metrics.RecordPollRun(ctx, instrumentation.JobAutoReply, instrumentation.StatusSuccess, r.opts.Account)
	if len(msgs) == 0 && polls%r.opts.StatusEvery == 0 {
		r.deps.Logger.Info("no new emails",
			slog.Int64("polls", polls),
			slog.Int64("replies_sent", r.TotalReplied()))
	}
	return res, ctx.Err()
}

func (r *Responder) handle(ctx context.Context, m gmail.Message, own string, answered map[string]bool, res *Result) {
	thread := m.ThreadID
	if thread == "" {
		thread = m.ID
	}
	logger := r.deps.Logger.With(logging.MessageID(m.ID))

	if answered[thread] {
		r.skip(ctx, reasonReplied, res)
		return
	}
	seen, err := r.deps.Store.Seen(ctx, thread)
	if err != nil {
		res.Failed++
		logger.Warn("failed to read replied state", logging.Err(err))
		return
	}
	if seen {
		r.skip(ctx, reasonReplied, res)
		return
	}
	res.Checked++

	_, addr := m.Sender()
	if reason := skipReason(m, addr, own); reason != "" {
		logger.Debug("not answering message", slog.String("reason", reason))
		r.skip(ctx, reason, res)
		return
	}

	logger = logger.With(logging.Domain(addr))
	if !r.opts.Enabled {
		res.Pending++
		r.deps.Metrics.RecordAutoReply(ctx, instrumentation.StatusSkipped)
		logger.Info("auto-reply disabled, no action taken",
			logging.UserHash(addr),
			logging.Status(logging.StatusSkipped))
		return
	}

	body, err := r.Render(m)
	if err != nil {
		res.Failed++
		r.deps.Metrics.RecordAutoReply(ctx, instrumentation.StatusError)
		logger.Error("failed to render auto-reply", logging.Err(err))
		return
	}

	headers := map[string]string{AutoSubmittedHeader: autoReplied}
	if _, err := r.deps.Replier.Reply(ctx, m, body, headers); err != nil {
		res.Failed++
		r.deps.Metrics.RecordAutoReply(ctx, instrumentation.StatusError)
		logger.Error("failed to send auto-reply", logging.Err(err), logging.Status(logging.StatusError))
		return
	}
	res.Replied++
	answered[thread] = true
	r.replied.Add(1)
	r.deps.Metrics.RecordAutoReply(ctx, instrumentation.StatusSuccess)
	logger.Info("auto-reply sent",
		slog.Int64("replies_sent", r.TotalReplied()),
		logging.Status(logging.StatusSuccess))

	if err := r.deps.Replier.MarkAsRead(ctx, m.ID); err != nil {
		logger.Warn("failed to mark message as read", logging.Err(err))
	}
	if err := r.deps.Store.Mark(ctx, thread); err != nil {
		logger.Warn("failed to record replied thread", logging.Err(err))
	}
}

func (r *Responder) skip(ctx context.Context, reason string, res *Result) {
	res.Skipped++
	r.deps.Metrics.RecordMessageSkipped(ctx, instrumentation.JobAutoReply, reason)
}

// skipReason returns why m must not be answered, or "" when it may be.
func skipReason(m gmail.Message, sender, own string) string {
	switch {
	case sender == "" || strings.EqualFold(sender, own):
		return reasonOwn
	case m.AutoSubmitted != "" && !strings.EqualFold(strings.TrimSpace(m.AutoSubmitted), "no"):
		return reasonAutomated
	case isNoReply(sender):
		return reasonNoReply
	case m.ListID != "":
		return reasonList
	}
	switch strings.ToLower(strings.TrimSpace(m.Precedence)) {
	case "bulk", "list", "junk":
		return reasonList
	}
	return ""
}

func isNoReply(addr string) bool {
	local, _, _ := strings.Cut(strings.ToLower(addr), "@")
	local = strings.NewReplacer("-", "", "_", "", ".", "").Replace(local)
	return strings.HasPrefix(local, "noreply") ||
		strings.HasPrefix(local, "donotreply") ||
		local == "mailerdaemon" ||
		local == "postmaster"
}

// Job adapts Poll to scheduler.Job.
func (r *Responder) Job(ctx context.Context) error {
	res, err := r.Poll(ctx)
	if err != nil {
		return err
	}
	r.deps.Logger.Debug("poll finished",
		slog.Int("checked", res.Checked),
		slog.Int("replied", res.Replied),
		slog.Int("pending", res.Pending),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	return nil
}
