package instrumentation

import (
	"fmt"
	"os"
	"time"

	"github.com/teemow/workday/internal/config"
)

// ServiceName identifies workday in exported telemetry.
const ServiceName = "workday"

const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// DefaultMetricInterval is the push interval of the OTLP and stdout metric
// readers.
const DefaultMetricInterval = 10 * time.Second

// Config is what NewProvider needs to set up metrics and tracing.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// ServiceInstanceID defaults to the hostname.
	ServiceInstanceID string

	Enabled         bool
	MetricsExporter string
	TracingExporter string
	OTLPEndpoint    string
	OTLPInsecure    bool
	// TraceSamplingRate is the parent-based ratio, 0.0 to 1.0.
	TraceSamplingRate float64

	// DetailedLabels adds the account label to poll and tool metrics.
	DetailedLabels bool
	// AuditLogging enables one log record per MCP tool invocation.
	AuditLogging bool
}

// NewConfig maps the telemetry section of the workday configuration.
func NewConfig(t config.TelemetryConfig, version string) Config {
	instance, _ := os.Hostname()
	return Config{
		ServiceName:       ServiceName,
		ServiceVersion:    version,
		ServiceInstanceID: instance,
		Enabled:           !t.Disabled,
		MetricsExporter:   orDefault(t.Metrics, ExporterPrometheus),
		TracingExporter:   orDefault(t.Tracing, ExporterNone),
		OTLPEndpoint:      t.OTLPEndpoint,
		OTLPInsecure:      t.OTLPInsecure,
		TraceSamplingRate: t.SampleRate,
		DetailedLabels:    t.AccountLabels,
		AuditLogging:      t.AuditTools,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Validate rejects exporter settings NewProvider cannot honour.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterNone, ExporterStdout:
	case ExporterOTLP:
		if c.OTLPEndpoint == "" {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}
	return nil
}
