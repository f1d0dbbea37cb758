// Package deadline_tools provides the extract_deadlines MCP tool, which runs
// the reminder date extraction on arbitrary text.
package deadline_tools
