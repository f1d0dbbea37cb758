// Package summary builds meeting summary reports for a day, week or month
// and renders them as plain text, HTML or PDF.
package summary
