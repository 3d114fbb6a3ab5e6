package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, true)

	logger.Info("Round opened", "round_id", "r1")
	logger.Warn("Payment rejected", "payment_id", "p1")

	out := buf.String()
	if strings.Contains(out, "Round opened") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, "Payment rejected") || !strings.Contains(out, "payment_id=p1") {
		t.Errorf("warn line missing: %q", out)
	}
}
