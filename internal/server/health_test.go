package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeJob struct{ runs, failures int64 }

func (f fakeJob) Runs() int64     { return f.runs }
func (f fakeJob) Failures() int64 { return f.failures }

func serve(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker()
	h.SetShuttingDown()

	rec, body := serve(t, h.LivenessHandler())
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body["status"] != healthStatusOK {
		t.Errorf("body status = %v, want %q", body["status"], healthStatusOK)
	}
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name         string
		ready        bool
		shuttingDown bool
		wantCode     int
		wantStatus   string
	}{
		{"starting", false, false, http.StatusServiceUnavailable, healthStatusNotReady},
		{"ready", true, false, http.StatusOK, healthStatusOK},
		{"shutting down", true, true, http.StatusServiceUnavailable, healthStatusNotReady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker()
			h.SetReady(tt.ready)
			if tt.shuttingDown {
				h.SetShuttingDown()
			}

			rec, body := serve(t, h.ReadinessHandler())
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("body status = %v, want %q", body["status"], tt.wantStatus)
			}
			checks, _ := body["checks"].(map[string]any)
			if tt.shuttingDown && checks["shutdown"] != healthStatusShuttingDown {
				t.Errorf("shutdown check = %v, want %q", checks["shutdown"], healthStatusShuttingDown)
			}
		})
	}
}

func TestHealthChecker_Detailed(t *testing.T) {
	h := NewHealthChecker()
	h.SetReady(true)
	h.AddJob("reminders", fakeJob{runs: 5, failures: 1})
	h.AddJob("autoreply", fakeJob{runs: 2})

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp DetailedHealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Status != healthStatusOK || resp.Uptime == "" {
		t.Errorf("response = %+v", resp)
	}
	want := []JobHealth{{Name: "autoreply", Runs: 2}, {Name: "reminders", Runs: 5, Failures: 1}}
	if len(resp.Jobs) != len(want) {
		t.Fatalf("jobs = %+v, want %+v", resp.Jobs, want)
	}
	for i := range want {
		if resp.Jobs[i] != want[i] {
			t.Errorf("jobs[%d] = %+v, want %+v", i, resp.Jobs[i], want[i])
		}
	}

	h.SetShuttingDown()
	rec = httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status while shutting down = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
