// Package cmd implements the command-line interface for workday.
//
// This package provides the following commands:
//   - auth: Authorize workday for a Google account
//   - gaps: Print free time inside working hours for the coming days
//   - remind: Create Google Tasks reminders for deadlines found in email
//   - autoreply: Answer unread email while away
//   - summary: Write a meeting summary report (text, HTML or PDF)
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The gaps command is the default command when no subcommand is specified.
package cmd
