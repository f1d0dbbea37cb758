package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/workday/internal/autoreply"
	"github.com/teemow/workday/internal/logging"
)

func newAutoReplyCmd() *cobra.Command {
	var (
		opts    pollOptions
		enabled bool
	)

	cmd := &cobra.Command{
		Use:   "autoreply",
		Short: "Answer unread email while you are away",
		Long: `Poll the Gmail inbox for unread messages and answer each conversation once
with the configured away message. Answered messages are marked as read.
Mail from your own address, automated senders and mailing lists is skipped.

The responder is disabled by default: it then only reports what it would
answer. Enable it with autoreply.enabled in the config file, the
WORKDAY_AUTOREPLY_ENABLED env var or --enabled.

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
			if cmd.Flags().Changed("enabled") {
				cfg.AutoReply.Enabled = enabled
			}

			mail, err := a.gmailClient(ctx)
			if err != nil {
				return err
			}
			st, err := a.openStore(ctx, "autoreply")
			if err != nil {
				return err
			}
			defer st.Close()

			responder, err := autoreply.New(autoreply.Deps{
				Messages: mail,
				Replier:  mail,
				Store:    st,
				Logger:   logging.WithService(a.logger, "autoreply"),
				Metrics:  a.metrics(),
			}, autoreply.Options{
				Enabled:     cfg.AutoReply.Enabled,
				MaxMessages: int64(cfg.AutoReply.MaxMessages),
				Message:     cfg.AutoReply.Message,
				Account:     cfg.Account,
			})
			if err != nil {
				return err
			}

			if !cfg.AutoReply.Enabled {
				a.logger.Info("auto-reply is disabled, unread mail is only counted")
			}

			if opts.once {
				res, err := responder.Poll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checked %d messages: %d replied, %d pending, %d skipped, %d failed\n",
					res.Checked, res.Replied, res.Pending, res.Skipped, res.Failed)
				return nil
			}
			return runPoller(ctx, a, "autoreply", cfg.AutoReply.Schedule, responder.Job, opts)
		},
	}

	addPollFlags(cmd, &opts)
	cmd.Flags().BoolVar(&enabled, "enabled", false, "Send replies (overrides autoreply.enabled)")
	return cmd
}
