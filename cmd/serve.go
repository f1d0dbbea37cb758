package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workday/internal/config"
	"github.com/teemow/workday/internal/deadline"
	"github.com/teemow/workday/internal/instrumentation"
	"github.com/teemow/workday/internal/logging"
	"github.com/teemow/workday/internal/resources"
	"github.com/teemow/workday/internal/tools/calendar_tools"
	"github.com/teemow/workday/internal/tools/common"
	"github.com/teemow/workday/internal/tools/deadline_tools"
	"github.com/teemow/workday/internal/tools/tasks_tools"
)

func newServeCmd() *cobra.Command {
	var yolo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server on standard input/output.

Tools:
  - find_free_time:    free time slots inside working hours
  - meeting_summary:   meetings of the current day, week or month
  - extract_deadlines: upcoming dates mentioned in a text
  - tasks_list_task_lists: the Google Tasks lists of the account
  - create_reminder:   a deadline reminder task (only with --yolo)

Resources:
  - workday://config:  the effective configuration
  - workday://account: the Google account in use

Safety Mode:
  By default the server is read-only. Use --yolo to enable tools that
  create tasks.

Logs go to standard error. Set telemetry.audit_tools in the config for one log
record per tool call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			a, err := newApp(ctx, globalOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			src, _, err := a.eventSource(ctx)
			if err != nil {
				return err
			}
			order, err := deadline.ParseOrder(a.cfg.Reminders.DateOrder)
			if err != nil {
				return err
			}

			deps := toolDeps{
				cfg: a.cfg,
				calendar: calendar_tools.Env{
					Source:      src,
					Planner:     a.planner(),
					SkipAllDay:  a.cfg.Calendar.SkipAllDay,
					DefaultDays: a.cfg.Gaps.DaysAhead,
					Metrics:     a.metrics(),
				},
				tasks: tasks_tools.Env{
					TaskList:   a.cfg.Reminders.TaskList,
					DaysBefore: a.cfg.Reminders.DaysBefore,
					Location:   a.loc,
				},
				readOnly:  !yolo,
				extractor: deadline.NewExtractor(order, a.loc),
				matcher:   deadline.NewMatcher(a.cfg.Reminders.Keywords),
				inst: common.Instrumentation{
					Metrics: a.metrics(),
					Audit:   instrumentation.NewAuditLogger(a.logger, a.instrConfig.AuditLogging),
					Account: a.cfg.Account,
				},
			}
			if mail, err := a.gmailClient(ctx); err == nil {
				deps.address = mail.Address
			} else {
				a.logger.Warn("gmail unavailable, account resource reports the account name only", logging.Err(err))
			}

			if taskClient, err := a.tasksClient(ctx); err == nil {
				deps.tasks.Tasks = taskClient
			} else {
				a.logger.Warn("google tasks unavailable, task tools will fail", logging.Err(err))
			}

			mcpSrv := newMCPServer()
			if err := registerAllTools(mcpSrv, deps); err != nil {
				return err
			}

			a.logger.Info("serving MCP on stdio",
				logging.Account(a.cfg.Account),
				slog.Bool("read_only", !yolo))
			return runStdioServer(mcpSrv)
		},
	}

	cmd.Flags().BoolVar(&yolo, "yolo", false, "Enable write operations (creating tasks)")
	return cmd
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("workday", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// toolDeps is what the MCP tools and resources are built from.
type toolDeps struct {
	cfg       *config.Config
	calendar  calendar_tools.Env
	tasks     tasks_tools.Env
	readOnly  bool
	extractor *deadline.Extractor
	matcher   *deadline.Matcher
	address   resources.AddressFunc
	inst      common.Instrumentation
}

// registerAllTools registers all MCP tools and resources.
func registerAllTools(mcpSrv *mcpserver.MCPServer, deps toolDeps) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, deps.calendar, deps.inst)
			},
		},
		{
			name: "Deadline",
			register: func() error {
				return deadline_tools.RegisterDeadlineTools(mcpSrv, deps.extractor, deps.matcher, deps.inst)
			},
		},
		{
			name: "Tasks",
			register: func() error {
				return tasks_tools.RegisterTasksTools(mcpSrv, deps.tasks, deps.readOnly, deps.inst)
			},
		},
		{
			name: "Workday Resources",
			register: func() error {
				return resources.RegisterWorkdayResources(mcpSrv, deps.cfg, deps.address)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}
	return nil
}
