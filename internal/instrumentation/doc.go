// Package instrumentation provides OpenTelemetry metrics and tracing for
// workday.
//
// # Metrics
//
// Google API:
//   - google_api_operations_total: operations by service, operation and status
//   - google_api_operation_duration_seconds: operation durations
//
// Free time:
//   - workday_gaps_found_total: gaps found across planned days
//   - workday_free_hours: free hours per planned day
//
// Polling jobs:
//   - workday_poll_runs_total: runs by job and status
//   - workday_reminders_created_total: reminder tasks by status
//   - workday_auto_replies_total: auto replies by status
//   - workday_messages_skipped_total: ignored messages by job and reason
//
// MCP tools:
//   - mcp_tool_invocations_total and mcp_tool_duration_seconds
//
// # Configuration
//
// Instrumentation is configured by the telemetry section of the workday
// configuration (see NewConfig). The standard OTEL_SDK_DISABLED,
// OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE and
// OTEL_TRACES_SAMPLER_ARG variables override it, as do
// WORKDAY_METRICS_EXPORTER and WORKDAY_TRACING_EXPORTER.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.NewConfig(cfg.Telemetry, version))
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	err = instrumentation.TrackGoogleAPI(ctx, provider.Metrics(), instrumentation.ServiceGmail,
//		instrumentation.OperationList, func(ctx context.Context) error {
//			_, err := call.Context(ctx).Do()
//			return err
//		})
package instrumentation
