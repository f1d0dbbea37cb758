package calendar_tools

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workday/internal/calendar"
	"github.com/teemow/workday/internal/freetime"
	"github.com/teemow/workday/internal/tools/common"
)

// maxDays bounds the range find_free_time accepts.
const maxDays = 62

func findFreeTimeTool() mcp.Tool {
	return mcp.NewTool("find_free_time",
		mcp.WithDescription("Find free time slots inside working hours over the next days"),
		mcp.WithNumber("days",
			mcp.Description("Number of days to check, starting with start_date (default: configured days ahead)"),
		),
		mcp.WithString("start_date",
			mcp.Description("First day to check (YYYY-MM-DD, default: today)"),
		),
		mcp.WithNumber("min_gap_hours",
			mcp.Description("Minimum length of a reported gap in hours (default: configured minimum)"),
		),
	)
}

func newFindFreeTimeHandler(env Env) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		loc := env.location()

		days, err := common.NumberArg(args, "days", float64(env.DefaultDays))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !(days >= 1 && days <= maxDays) {
			return mcp.NewToolResultError(fmt.Sprintf("days must be between 1 and %d", maxDays)), nil
		}

		from := env.now().In(loc)
		if s := common.StringArg(args, "start_date", ""); s != "" {
			from, err = time.ParseInLocation(time.DateOnly, s, loc)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid start_date format (want YYYY-MM-DD): %v", err)), nil
			}
		}

		planner := env.Planner
		planner.Location = loc
		minGap, err := common.NumberArg(args, "min_gap_hours", planner.MinGap.Hours())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if math.IsNaN(minGap) || minGap < 0 {
			return mcp.NewToolResultError("min_gap_hours must be a non-negative number"), nil
		}
		planner.MinGap = freetime.Hours(minGap)

		report, err := calendar.PlanFreeTime(ctx, env.Source, planner, from, int(days), env.SkipAllDay)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to find free time: %v", err)), nil
		}
		env.Metrics.RecordFreeTime(ctx, report.TotalGaps, report.TotalHours)

		var b strings.Builder
		fmt.Fprintf(&b, "Working hours: %02d:00 - %02d:00, minimum gap: %.1f hours\n\n",
			planner.StartHour, planner.EndHour, minGap)
		if err := report.WriteText(&b, planner.MinGap); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(b.String()), nil
	}
}
