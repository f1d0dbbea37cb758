package calendar_tools

import (
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workday/internal/calendar"
	"github.com/teemow/workday/internal/freetime"
	"github.com/teemow/workday/internal/instrumentation"
	"github.com/teemow/workday/internal/tools/common"
)

// Env is what the calendar tools work with.
type Env struct {
	Source calendar.EventSource
	// Planner carries work hours, minimum gap and reference location.
	Planner    freetime.Planner
	SkipAllDay bool
	// DefaultDays is used when find_free_time gets no days argument.
	DefaultDays int
	// Now returns the current time. Nil means time.Now.
	Now     func() time.Time
	Metrics *instrumentation.Metrics
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) location() *time.Location {
	if e.Planner.Location != nil {
		return e.Planner.Location
	}
	return time.Local
}

// RegisterCalendarTools registers find_free_time and meeting_summary.
func RegisterCalendarTools(s *mcpserver.MCPServer, env Env, inst common.Instrumentation) error {
	s.AddTool(findFreeTimeTool(), common.InstrumentedToolHandler("find_free_time", inst, newFindFreeTimeHandler(env)))
	s.AddTool(meetingSummaryTool(), common.InstrumentedToolHandler("meeting_summary", inst, newMeetingSummaryHandler(env)))
	return nil
}
