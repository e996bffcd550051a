package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONOutsideDevelopment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, "info", false)
	logger.Debug("hidden")
	logger.Info("user login successful", "remote_addr", "10.0.0.1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if rec["msg"] != "user login successful" || rec["remote_addr"] != "10.0.0.1" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNew_TextInDevelopment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "debug", true).Debug("visible", "key", "value")

	if !strings.Contains(buf.String(), "msg=visible") || !strings.Contains(buf.String(), "key=value") {
		t.Errorf("unexpected text output: %q", buf.String())
	}
}
