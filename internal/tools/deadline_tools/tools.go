package deadline_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workday/internal/deadline"
	"github.com/teemow/workday/internal/tools/common"
)

// RegisterDeadlineTools registers extract_deadlines.
func RegisterDeadlineTools(s *mcpserver.MCPServer, extractor *deadline.Extractor, matcher *deadline.Matcher, inst common.Instrumentation) error {
	if extractor == nil {
		return fmt.Errorf("deadline extractor is required")
	}

	tool := mcp.NewTool("extract_deadlines",
		mcp.WithDescription("Extract upcoming deadline dates from a text such as an email body"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to search for dates"),
		),
	)
	s.AddTool(tool, common.InstrumentedToolHandler("extract_deadlines", inst, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleExtractDeadlines(ctx, request, extractor, matcher)
	}))
	return nil
}

func handleExtractDeadlines(_ context.Context, request mcp.CallToolRequest, extractor *deadline.Extractor, matcher *deadline.Matcher) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	text, ok := args["text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	var b strings.Builder
	if matcher != nil {
		if keyword, found := matcher.Match(text); found {
			fmt.Fprintf(&b, "Reminder keyword: %s\n", keyword)
		} else {
			b.WriteString("Reminder keyword: none\n")
		}
	}

	matches := extractor.Extract(text)
	if len(matches) == 0 {
		b.WriteString("No upcoming dates found.\n")
		return mcp.NewToolResultText(b.String()), nil
	}

	fmt.Fprintf(&b, "Found %d upcoming date(s):\n", len(matches))
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. %s (%q, %s)\n", i+1, m.Date.Format("Monday, January 02, 2006"), m.Text, m.Parser)
	}
	return mcp.NewToolResultText(b.String()), nil
}
