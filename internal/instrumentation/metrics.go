package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrJob       = "job"
	attrReason    = "reason"
	attrTool      = "tool"
	attrAccount   = "account"
)

// Metrics provides methods for recording observability metrics. A nil
// *Metrics and a zero Metrics both record nothing.
type Metrics struct {
	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// Free time metrics
	gapsFoundTotal metric.Int64Counter
	freeHours      metric.Float64Histogram

	// Poll job metrics
	pollRunsTotal         metric.Int64Counter
	remindersCreatedTotal metric.Int64Counter
	autoRepliesTotal      metric.Int64Counter
	messagesSkippedTotal  metric.Int64Counter

	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether the account label is included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.gapsFoundTotal, err = meter.Int64Counter(
		"workday_gaps_found_total",
		metric.WithDescription("Total number of free time gaps found"),
		metric.WithUnit("{gap}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workday_gaps_found_total counter: %w", err)
	}

	m.freeHours, err = meter.Float64Histogram(
		"workday_free_hours",
		metric.WithDescription("Free hours per planned working day"),
		metric.WithUnit("h"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 4, 6, 8, 10, 13),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workday_free_hours histogram: %w", err)
	}

	m.pollRunsTotal, err = meter.Int64Counter(
		"workday_poll_runs_total",
		metric.WithDescription("Total number of mailbox poll runs by job and status"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workday_poll_runs_total counter: %w", err)
	}

	m.remindersCreatedTotal, err = meter.Int64Counter(
		"workday_reminders_created_total",
		metric.WithDescription("Total number of deadline reminders created"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workday_reminders_created_total counter: %w", err)
	}

	m.autoRepliesTotal, err = meter.Int64Counter(
		"workday_auto_replies_total",
		metric.WithDescription("Total number of auto replies by status"),
		metric.WithUnit("{reply}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workday_auto_replies_total counter: %w", err)
	}

	m.messagesSkippedTotal, err = meter.Int64Counter(
		"workday_messages_skipped_total",
		metric.WithDescription("Total number of messages skipped by job and reason"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create workday_messages_skipped_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (gmail, calendar, tasks)
//   - operation: Operation type (list, get, create, modify, send, query)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.googleAPIOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordFreeTime records the gaps and free hours found for one working day.
func (m *Metrics) RecordFreeTime(ctx context.Context, gaps int, hours float64) {
	if m == nil || m.gapsFoundTotal == nil || m.freeHours == nil {
		return
	}

	m.gapsFoundTotal.Add(ctx, int64(gaps))
	m.freeHours.Record(ctx, hours)
}

// RecordPollRun records one run of a polling job.
func (m *Metrics) RecordPollRun(ctx context.Context, job, status, account string) {
	if m == nil || m.pollRunsTotal == nil {
		return
	}

	m.pollRunsTotal.Add(ctx, 1, metric.WithAttributes(m.accountAttrs(account,
		attribute.String(attrJob, job),
		attribute.String(attrStatus, status),
	)...))
}

// RecordReminderCreated records a reminder task together with its notification.
func (m *Metrics) RecordReminderCreated(ctx context.Context, status string) {
	if m == nil || m.remindersCreatedTotal == nil {
		return
	}

	m.remindersCreatedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordAutoReply records a sent, failed or dry-run auto reply.
func (m *Metrics) RecordAutoReply(ctx context.Context, status string) {
	if m == nil || m.autoRepliesTotal == nil {
		return
	}

	m.autoRepliesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))
}

// RecordMessageSkipped records a message a polling job ignored, with the reason.
func (m *Metrics) RecordMessageSkipped(ctx context.Context, job, reason string) {
	if m == nil || m.messagesSkippedTotal == nil {
		return
	}

	m.messagesSkippedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrJob, job),
		attribute.String(attrReason, reason),
	))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := m.accountAttrs(account,
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	)

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// accountAttrs appends the account label only when detailed labels are enabled.
func (m *Metrics) accountAttrs(account string, attrs ...attribute.KeyValue) []attribute.KeyValue {
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}
	return attrs
}
