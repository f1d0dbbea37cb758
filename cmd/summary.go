package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/workday/internal/calendar"
	"github.com/teemow/workday/internal/freetime"
	"github.com/teemow/workday/internal/summary"
)

func newSummaryCmd() *cobra.Command {
	var (
		period string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Write a meeting summary report",
		Long: `Summarise the meetings of the current day, week (Monday to Sunday) or
month: totals, average meetings per day, free hours and one table of
meetings per day.

The report is written as text, HTML or PDF. PDF output needs a local
Chrome or Chromium. Without --output the file is named
meeting_summary_<first day>_<last day>.<ext> inside summary.output_dir;
--output - writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			a, err := newApp(ctx, globalOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if period == "" {
				period = a.cfg.Summary.Period
			}
			if format == "" {
				format = a.cfg.Summary.Format
			}
			p, err := summary.ParsePeriod(period)
			if err != nil {
				return err
			}
			renderer, err := summary.NewRenderer(format)
			if err != nil {
				return err
			}

			src, _, err := a.eventSource(ctx)
			if err != nil {
				return err
			}
			s, err := buildSummary(ctx, src, a.planner(), p, time.Now())
			if err != nil {
				return err
			}

			if output == "-" {
				return renderer.Render(ctx, cmd.OutOrStdout(), s)
			}
			if output == "" {
				output = filepath.Join(a.cfg.Summary.OutputDir, summary.Filename(s, renderer.Extension()))
			}
			if err := writeSummary(ctx, output, renderer, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Summary written to: %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "daily, weekly or monthly (default: summary.period)")
	cmd.Flags().StringVar(&format, "format", "", "text, html or pdf (default: summary.format)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, - for stdout")
	return cmd
}

func buildSummary(ctx context.Context, src calendar.EventSource, planner freetime.Planner, p summary.Period, now time.Time) (summary.Summary, error) {
	start, end, err := summary.Range(p, now, planner.Location)
	if err != nil {
		return summary.Summary{}, err
	}
	events, err := src.Events(ctx, start, end)
	if err != nil {
		return summary.Summary{}, fmt.Errorf("failed to load events: %w", err)
	}
	return summary.Build(p, now, events, planner)
}

// writeSummary renders into a temporary file next to path and renames it,
// so a failed render leaves no partial report behind.
func writeSummary(ctx context.Context, path string, r summary.Renderer, s summary.Summary) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".meeting_summary_*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := renderTo(ctx, f, r, s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return os.Rename(tmp, path)
}

func renderTo(ctx context.Context, w io.Writer, r summary.Renderer, s summary.Summary) error {
	if err := r.Render(ctx, w, s); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}
