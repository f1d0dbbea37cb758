package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/workday/internal/deadline"
	"github.com/teemow/workday/internal/logging"
	"github.com/teemow/workday/internal/reminder"
)

func newRemindCmd() *cobra.Command {
	var opts pollOptions

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Create reminders for deadlines mentioned in email",
		Long: `Poll the Gmail inbox for messages that mention one of the configured
keywords (deadline, due, ...) together with a future date. For each such
message a Google Tasks task is created, due on the deadline, and a reminder
email is sent to you. Each message is handled once.

Runs until interrupted; use --once for a single poll.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			a, err := newApp(ctx, globalOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)
			cfg := a.cfg

			mail, err := a.gmailClient(ctx)
			if err != nil {
				return err
			}
			taskClient, err := a.tasksClient(ctx)
			if err != nil {
				return err
			}
			taskList, err := taskClient.ResolveTaskList(ctx, cfg.Reminders.TaskList)
			if err != nil {
				return err
			}
			notify := cfg.Reminders.NotifyEmail
			if notify == "" {
				if notify, err = mail.Address(ctx); err != nil {
					return err
				}
			}
			order, err := deadline.ParseOrder(cfg.Reminders.DateOrder)
			if err != nil {
				return err
			}

			st, err := a.openStore(ctx, "reminder")
			if err != nil {
				return err
			}
			defer st.Close()

			gen, err := reminder.New(reminder.Deps{
				Messages:  mail,
				Tasks:     taskClient,
				Mailer:    mail,
				Store:     st,
				Extractor: deadline.NewExtractor(order, a.loc),
				Matcher:   deadline.NewMatcher(cfg.Reminders.Keywords),
				Logger:    logging.WithService(a.logger, "remind"),
				Metrics:   a.metrics(),
			}, reminder.Options{
				MaxMessages: int64(cfg.Reminders.MaxMessages),
				DaysBefore:  cfg.Reminders.DaysBefore,
				TaskList:    taskList,
				NotifyEmail: notify,
				Account:     cfg.Account,
			})
			if err != nil {
				return err
			}

			if opts.once {
				res, err := gen.Poll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checked %d messages: %d matched, %d reminders created, %d failed\n",
					res.Checked, res.Matched, res.Created, res.Failed)
				return nil
			}
			return runPoller(ctx, a, "remind", cfg.Reminders.Schedule, gen.Job, opts)
		},
	}

	addPollFlags(cmd, &opts)
	return cmd
}
