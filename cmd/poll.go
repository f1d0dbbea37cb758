package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/workday/internal/logging"
	"github.com/teemow/workday/internal/scheduler"
	"github.com/teemow/workday/internal/server"
)

const metricsShutdownTimeout = 5 * time.Second

// pollOptions are the flags of the polling commands.
type pollOptions struct {
	once        bool
	schedule    string
	metricsAddr string
}

func addPollFlags(cmd *cobra.Command, o *pollOptions) {
	cmd.Flags().BoolVar(&o.once, "once", false, "Poll once and exit")
	cmd.Flags().StringVar(&o.schedule, "schedule", "", "Cron schedule overriding the configured one (e.g. \"@every 10m\")")
	cmd.Flags().StringVar(&o.metricsAddr, "metrics-addr", "", "Serve metrics and health endpoints on this address (e.g. \":9090\"). Can also use METRICS_ADDR env var.")
}

// runPoller runs job on schedule until SIGINT or SIGTERM. A metrics server
// with health endpoints runs alongside when an address is given.
func runPoller(ctx context.Context, a *app, name, schedule string, job scheduler.Job, o pollOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if o.schedule != "" {
		schedule = o.schedule
	}
	logger := logging.WithService(a.logger, name)
	sched, err := scheduler.New(name, schedule, job, logger)
	if err != nil {
		return err
	}

	health := server.NewHealthChecker()
	health.AddJob(name, sched)

	addr := o.metricsAddr
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr != "" {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    addr,
			InstrumentationProvider: a.provider,
			Health:                  health,
			Logger:                  logger,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	health.SetReady(true)
	err = sched.Run(ctx)
	health.SetShuttingDown()
	logger.Info("poller stopped",
		slog.Int64("runs", sched.Runs()),
		slog.Int64("failures", sched.Failures()))
	return err
}
