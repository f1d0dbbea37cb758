package calendar_tools

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/workday/internal/summary"
	"github.com/teemow/workday/internal/tools/common"
)

func meetingSummaryTool() mcp.Tool {
	return mcp.NewTool("meeting_summary",
		mcp.WithDescription("Summarise the meetings of the current day, week or month"),
		mcp.WithString("period",
			mcp.Description("Summary period: daily, weekly or monthly (default: weekly)"),
			mcp.Enum(string(summary.Daily), string(summary.Weekly), string(summary.Monthly)),
		),
		mcp.WithString("format",
			mcp.Description("Output format: text or html (default: text)"),
			mcp.Enum("text", "html"),
		),
	)
}

func newMeetingSummaryHandler(env Env) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		period, err := summary.ParsePeriod(common.StringArg(args, "period", string(summary.Weekly)))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var renderer summary.Renderer
		switch format := common.StringArg(args, "format", "text"); format {
		case "text":
			renderer = summary.TextRenderer{}
		case "html":
			renderer = summary.HTMLRenderer{}
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q, use text or html", format)), nil
		}

		loc := env.location()
		now := env.now()
		start, end, err := summary.Range(period, now, loc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		events, err := env.Source.Events(ctx, start, end)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to load events: %v", err)), nil
		}

		planner := env.Planner
		planner.Location = loc
		s, err := summary.Build(period, now, events, planner)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var buf bytes.Buffer
		if err := renderer.Render(ctx, &buf, s); err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(buf.String()), nil
	}
}
