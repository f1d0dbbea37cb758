package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/workday/internal/calendar"
	"github.com/teemow/workday/internal/freetime"
)

// busyQuerier looks up the busy times of other calendars.
type busyQuerier interface {
	QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]calendar.FreeBusyInfo, error)
}

type gapsOptions struct {
	days   int
	minGap float64
	start  string
	with   []string
}

func newGapsCmd() *cobra.Command {
	var opts gapsOptions

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Find free time slots inside working hours",
		Long: `Print the meetings and the free time slots of each day, starting today,
followed by totals. Only gaps at least --min-gap hours long are reported.

With --with the busy times of other calendars (for example colleagues'
addresses) are merged in, so the result lists slots where everyone is free.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			a, err := newApp(ctx, globalOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			src, client, err := a.eventSource(ctx)
			if err != nil {
				return err
			}
			if len(opts.with) > 0 && client == nil {
				return fmt.Errorf("--with needs the google calendar source")
			}

			planner := a.planner()
			if cmd.Flags().Changed("min-gap") {
				planner.MinGap, err = minGapHours(opts.minGap)
				if err != nil {
					return err
				}
			}
			days := a.cfg.Gaps.DaysAhead
			if cmd.Flags().Changed("days") {
				days = opts.days
			}
			from := time.Now()
			if opts.start != "" {
				from, err = time.ParseInLocation(time.DateOnly, opts.start, a.loc)
				if err != nil {
					return fmt.Errorf("invalid --start date (want YYYY-MM-DD): %w", err)
				}
			}

			var busy busyQuerier
			if client != nil {
				busy = client
			}
			report, err := planGaps(ctx, src, busy, opts.with, planner, from, days, a.cfg.Calendar.SkipAllDay)
			if err != nil {
				return err
			}
			a.metrics().RecordFreeTime(ctx, report.TotalGaps, report.TotalHours)

			return writeGapsReport(cmd.OutOrStdout(), report, planner)
		},
	}

	// Zero defaults keep cobra from printing a second default; the real ones
	// come from the config.
	cmd.Flags().IntVar(&opts.days, "days", 0, "Number of days to check (default: gaps.days_ahead)")
	cmd.Flags().Float64Var(&opts.minGap, "min-gap", 0, "Minimum gap in hours (default: gaps.min_gap_hours)")
	cmd.Flags().StringVar(&opts.start, "start", "", "First day to check (YYYY-MM-DD, default: today)")
	cmd.Flags().StringSliceVar(&opts.with, "with", nil, "Calendars whose busy times are merged in")
	return cmd
}

// minGapHours converts the --min-gap value, rejecting NaN and negatives.
func minGapHours(h float64) (time.Duration, error) {
	if math.IsNaN(h) || h < 0 {
		return 0, fmt.Errorf("--min-gap must be a non-negative number, got %v", h)
	}
	return freetime.Hours(h), nil
}

// planGaps computes free time from src, with the busy times of the with
// calendars blocking time as well.
func planGaps(ctx context.Context, src calendar.EventSource, busy busyQuerier, with []string, p freetime.Planner, from time.Time, days int, skipAllDay bool) (freetime.Report, error) {
	if days < 1 {
		return freetime.Report{}, fmt.Errorf("days must be at least 1, got %d", days)
	}
	if len(with) == 0 || busy == nil {
		return calendar.PlanFreeTime(ctx, src, p, from, days, skipAllDay)
	}

	if p.Location == nil {
		p.Location = time.Local
	}
	y, m, d := from.In(p.Location).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, p.Location)
	end := start.AddDate(0, 0, days)

	events, err := src.Events(ctx, start, end)
	if err != nil {
		return freetime.Report{}, fmt.Errorf("failed to load events: %w", err)
	}
	infos, err := busy.QueryFreeBusy(ctx, start, end, with)
	if err != nil {
		return freetime.Report{}, err
	}

	blocking := calendar.ToFreetimeEvents(events, p.Location, skipAllDay)
	blocking = append(blocking, calendar.BusyToFreetimeEvents(infos, p.Location)...)
	return p.Plan(start, days, blocking)
}

func writeGapsReport(w io.Writer, report freetime.Report, p freetime.Planner) error {
	fmt.Fprintf(w, "Free time slots (%02d:00 - %02d:00, minimum %.1f hours)\n", p.StartHour, p.EndHour, p.MinGap.Hours())
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", 60))
	return report.WriteText(w, p.MinGap)
}
