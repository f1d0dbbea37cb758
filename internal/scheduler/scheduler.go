// Package scheduler runs a polling job on a cron schedule until its context
// is cancelled.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/teemow/workday/internal/logging"
)

// Job is one polling run. The context is cancelled when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler runs a Job once at start and then on a cron schedule. A run that
// is still busy when the next one is due causes that tick to be skipped.
type Scheduler struct {
	name   string
	spec   string
	sched  cron.Schedule
	job    Job
	logger *slog.Logger

	runs     atomic.Int64
	failures atomic.Int64
}

// New validates spec (standard five-field cron or a descriptor such as
// "@every 5m") and returns a scheduler for job.
func New(name, spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("scheduler job is nil")
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %q: %w", spec, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		name:   name,
		spec:   spec,
		sched:  sched,
		job:    job,
		logger: logger.With(slog.String(logging.KeyJob, name)),
	}, nil
}

// Runs returns how many times the job has run.
func (s *Scheduler) Runs() int64 {
	return s.runs.Load()
}

// Failures returns how many runs returned an error.
func (s *Scheduler) Failures() int64 {
	return s.failures.Load()
}

// Run blocks until ctx is cancelled. It runs the job immediately, then on
// every tick. On cancellation it waits for a running job to return.
func (s *Scheduler) Run(ctx context.Context) error {
	cl := logging.NewCronLogger(s.logger)
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	run := cron.FuncJob(func() { s.runOnce(ctx) })
	c.Schedule(s.sched, run)

	s.logger.Info("scheduler started", slog.String("schedule", s.spec))
	s.runOnce(ctx)
	if ctx.Err() != nil {
		return nil
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped", slog.Int64("runs", s.Runs()))
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.runs.Add(1)
	if err := s.job(ctx); err != nil {
		s.failures.Add(1)
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("job failed", logging.Err(err))
	}
}
