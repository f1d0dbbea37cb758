// Package server exposes the operational HTTP endpoints of long-running
// workday commands.
//
// MetricsServer serves Prometheus metrics on /metrics together with the
// health endpoints of a HealthChecker:
//   - /healthz: liveness, always ok while the process runs
//   - /readyz: readiness, fails while starting or shutting down
//   - /healthz/detailed: uptime and per-job run counters
package server
