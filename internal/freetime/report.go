package freetime

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const clockLayout = "03:04 PM"

// WriteText writes the human readable free-time report: each day with its
// meetings and gaps, followed by the totals. minGap is only used to explain
// days without gaps.
func (r Report) WriteText(w io.Writer, minGap time.Duration) error {
	var b strings.Builder
	for _, day := range r.Days {
		fmt.Fprintf(&b, "%s\n", day.Window.Day.Format("Monday, January 02, 2006"))
		b.WriteString(strings.Repeat("-", 60) + "\n")

		if len(day.Events) > 0 {
			fmt.Fprintf(&b, "   Scheduled meetings: %d (%.1f hours busy)\n", len(day.Events), day.BusyHours())
			for _, e := range day.Events {
				fmt.Fprintf(&b, "   • %s - %s: %s\n", e.Start.Format(clockLayout), e.End.Format(clockLayout), e.Label)
			}
		} else {
			b.WriteString("   No meetings scheduled\n")
		}

		if len(day.Gaps) > 0 {
			fmt.Fprintf(&b, "\n   Free time slots (%d found):\n", len(day.Gaps))
			for _, g := range day.Gaps {
				fmt.Fprintf(&b, "   → %s - %s (%.1f hours)\n", g.Start.Format(clockLayout), g.End.Format(clockLayout), g.Hours)
			}
		} else {
			fmt.Fprintf(&b, "\n   No free slots available (minimum %.1f hours)\n", minGap.Hours())
		}
		b.WriteString("\n")
	}

	b.WriteString("SUMMARY\n")
	fmt.Fprintf(&b, "Total free slots found: %d\n", r.TotalGaps)
	fmt.Fprintf(&b, "Total free hours: %.1f hours\n", r.TotalHours)
	fmt.Fprintf(&b, "Average per day: %.1f hours\n", r.AveragePerDay)

	_, err := io.WriteString(w, b.String())
	return err
}
