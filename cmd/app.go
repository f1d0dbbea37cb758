package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/workday/internal/calendar"
	"github.com/teemow/workday/internal/config"
	"github.com/teemow/workday/internal/freetime"
	"github.com/teemow/workday/internal/gmail"
	"github.com/teemow/workday/internal/google"
	"github.com/teemow/workday/internal/ics"
	"github.com/teemow/workday/internal/instrumentation"
	"github.com/teemow/workday/internal/logging"
	"github.com/teemow/workday/internal/store"
	"github.com/teemow/workday/internal/tasks"
)

// globalOptions holds the persistent flags shared by all commands.
type globalOptions struct {
	configPath string
	account    string
	logLevel   string
	logFormat  string
}

var globalOpts globalOptions

func addGlobalFlags(cmd *cobra.Command, o *globalOptions) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	flags.StringVar(&o.account, "account", "", "Google account name to use. Can also use WORKDAY_ACCOUNT env var.")
	flags.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&o.logFormat, "log-format", "", "Log format: text or json")
}

// loadConfig reads the config file and applies env vars and flags on top,
// in that order.
func loadConfig(o globalOptions) (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if o.account != "" {
		cfg.Account = o.account
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app bundles what the commands share: configuration, logger, telemetry and
// the Google token store.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	loc         *time.Location
	tokens      *google.FileTokenProvider
	provider    *instrumentation.Provider
	instrConfig instrumentation.Config
}

func newApp(ctx context.Context, o globalOptions, logOut io.Writer) (*app, error) {
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	instrConfig := instrumentation.NewConfig(cfg.Telemetry, version)
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		loc:         loc,
		tokens:      google.NewFileTokenProvider(),
		provider:    provider,
		instrConfig: instrConfig,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.provider.Shutdown(ctx); err != nil {
		a.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}

func (a *app) metrics() *instrumentation.Metrics {
	return a.provider.Metrics()
}

// planner builds the free-time planner from the gaps settings.
func (a *app) planner() freetime.Planner {
	return plannerFromConfig(a.cfg, a.loc)
}

func plannerFromConfig(cfg *config.Config, loc *time.Location) freetime.Planner {
	return freetime.Planner{
		Finder: freetime.Finder{
			MinGap: cfg.MinGap(),
			Strict: cfg.Gaps.Strict,
		},
		StartHour:    cfg.Gaps.WorkStartHour,
		EndHour:      cfg.Gaps.WorkEndHour,
		Location:     loc,
		SkipWeekends: cfg.Gaps.SkipWeekends,
	}
}

// calendarClient returns the Google Calendar client, or nil when events
// come from ICS feeds only.
func (a *app) calendarClient(ctx context.Context) (*calendar.Client, error) {
	if a.cfg.Calendar.Source != "google" {
		return nil, nil
	}
	client, err := calendar.NewClientForAccount(ctx, a.cfg.Account, a.tokens)
	if err != nil {
		return nil, a.authError(err)
	}
	return client.WithMetrics(a.metrics()), nil
}

// eventSource combines the Google calendar with any configured ICS feeds.
func (a *app) eventSource(ctx context.Context) (calendar.EventSource, *calendar.Client, error) {
	client, err := a.calendarClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	return sourceFromConfig(a.cfg, client), client, nil
}

func sourceFromConfig(cfg *config.Config, client *calendar.Client) calendar.EventSource {
	var sources calendar.MultiSource
	if client != nil {
		sources = append(sources, client.Source(cfg.Calendar.CalendarID))
	}
	if len(cfg.Calendar.ICS) > 0 {
		sources = append(sources, ics.NewSource(cfg.Calendar.ICS))
	}
	if len(sources) == 1 {
		return sources[0]
	}
	return sources
}

func (a *app) gmailClient(ctx context.Context) (*gmail.Client, error) {
	client, err := gmail.NewClientForAccount(ctx, a.cfg.Account, a.tokens)
	if err != nil {
		return nil, a.authError(err)
	}
	return client.WithMetrics(a.metrics()), nil
}

func (a *app) tasksClient(ctx context.Context) (*tasks.Client, error) {
	client, err := tasks.NewClientForAccount(ctx, a.cfg.Account, a.tokens)
	if err != nil {
		return nil, a.authError(err)
	}
	return client.WithMetrics(a.metrics()), nil
}

// openStore opens the configured store with keys under ns.
func (a *app) openStore(ctx context.Context, ns string) (store.Store, error) {
	st, err := store.Open(ctx, a.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", a.cfg.Store.Type, err)
	}
	return store.Namespace(st, ns), nil
}

func (a *app) authError(err error) error {
	if !a.tokens.HasTokenForAccount(a.cfg.Account) {
		return fmt.Errorf("%w\n\n%s", err, google.GetAuthenticationErrorMessage(a.cfg.Account))
	}
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
