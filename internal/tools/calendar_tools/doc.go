// Package calendar_tools provides the calendar MCP tools of workday:
// find_free_time reports free working time and meeting_summary summarises
// the meetings of a day, week or month.
package calendar_tools
