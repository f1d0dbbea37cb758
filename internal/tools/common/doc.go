// Package common provides shared utilities for MCP tool implementations:
// argument helpers and the instrumented handler wrapper used by every tool
// package.
package common
