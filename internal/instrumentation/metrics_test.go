package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailedLabels)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return m, reader
}

// counterPoints returns the data points of the named int64 counter.
func counterPoints(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is %T, not an int64 sum", name, m.Data)
			}
			return sum.DataPoints
		}
	}
	return nil
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	// Should not panic
	m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationList, StatusSuccess, time.Second)
	m.RecordFreeTime(ctx, 2, 4.5)
	m.RecordPollRun(ctx, JobReminders, StatusSuccess, "default")
	m.RecordReminderCreated(ctx, StatusSuccess)
	m.RecordAutoReply(ctx, StatusSkipped)
	m.RecordMessageSkipped(ctx, JobAutoReply, "own_address")
	m.RecordToolInvocation(ctx, "find_free_time", StatusSuccess, "default", time.Second)

	(&Metrics{}).RecordPollRun(ctx, JobReminders, StatusError, "")
}

func TestMetrics_RecordGoogleAPIOperation(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationList, StatusSuccess, 200*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationList, StatusSuccess, 100*time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceTasks, OperationCreate, StatusError, 500*time.Millisecond)

	points := counterPoints(t, reader, "google_api_operations_total")
	if len(points) != 2 {
		t.Fatalf("expected 2 attribute sets, got %d", len(points))
	}

	var total int64
	for _, p := range points {
		total += p.Value
		if v, _ := p.Attributes.Value(attribute.Key(attrService)); v.AsString() == ServiceGmail && p.Value != 2 {
			t.Errorf("expected 2 gmail operations, got %d", p.Value)
		}
	}
	if total != 3 {
		t.Errorf("expected 3 operations, got %d", total)
	}
}

func TestMetrics_RecordFreeTime(t *testing.T) {
	m, reader := newTestMetrics(t, false)

	m.RecordFreeTime(context.Background(), 2, 5.5)
	m.RecordFreeTime(context.Background(), 1, 9)

	points := counterPoints(t, reader, "workday_gaps_found_total")
	if len(points) != 1 || points[0].Value != 3 {
		t.Errorf("expected 3 gaps, got %+v", points)
	}
}

func TestMetrics_AccountLabel(t *testing.T) {
	tests := []struct {
		name           string
		detailedLabels bool
		wantAccount    bool
	}{
		{"detailed labels disabled", false, false},
		{"detailed labels enabled", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, reader := newTestMetrics(t, tt.detailedLabels)
			m.RecordPollRun(context.Background(), JobReminders, StatusSuccess, "work")

			points := counterPoints(t, reader, "workday_poll_runs_total")
			if len(points) != 1 {
				t.Fatalf("expected 1 data point, got %d", len(points))
			}
			_, ok := points[0].Attributes.Value(attribute.Key(attrAccount))
			if ok != tt.wantAccount {
				t.Errorf("account label present = %v, want %v", ok, tt.wantAccount)
			}
		})
	}
}
