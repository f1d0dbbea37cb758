package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cl := NewCronLogger(logger)

	cl.Info("wake", "now", "10:00")
	if buf.Len() != 0 {
		t.Errorf("Info should log at debug level, got %q", buf.String())
	}

	cl.Error(errors.New("panic in job"), "job failed", "entry", 1)
	out := buf.String()
	for _, want := range []string{"level=ERROR", "job failed", "error=\"panic in job\"", "entry=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestNewCronLogger_NilUsesDefault(t *testing.T) {
	cl := NewCronLogger(nil)
	if cl.Logger() != slog.Default() {
		t.Error("NewCronLogger(nil) should wrap slog.Default()")
	}
}
