// Package tasks_tools provides the Google Tasks MCP tools of workday.
//
// # Available Tools
//
//   - tasks_list_task_lists: List the task lists of the account
//   - create_reminder: Create a deadline reminder task (write mode only)
//
// create_reminder produces the same task the remind command creates for a
// deadline found in email: titled "Deadline: <subject>" and due on the
// deadline.
package tasks_tools
