// Package resources provides the read-only MCP resources of workday: the
// effective configuration and the account the server acts for.
package resources
