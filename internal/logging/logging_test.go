package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Options{Level: slog.LevelInfo, Format: "json"}))

	logger.Debug("hidden")
	logger.Info("probe finished", "ok", true)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["msg"] != "probe finished" {
		t.Errorf("msg = %v, want probe finished", rec["msg"])
	}
	if rec["ok"] != true {
		t.Errorf("ok = %v, want true", rec["ok"])
	}
}

func TestNewHandlerTextNoColorForBuffers(t *testing.T) {
	t.Setenv("INVOCATION_ID", "")
	t.Setenv("JOURNAL_STREAM", "")

	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Options{Level: slog.LevelDebug, Format: "text"}))
	logger.Warn("handler failed", "event", "workspace")

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output contains ANSI escapes: %q", out)
	}
	if !strings.Contains(out, "handler failed") || !strings.Contains(out, "event=workspace") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNewHandlerUnderSystemdDropsTime(t *testing.T) {
	t.Setenv("INVOCATION_ID", "abc")

	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Options{Level: slog.LevelInfo}))
	logger.Info("hello")

	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "INF") {
		t.Errorf("output = %q, want it to start with the level", out)
	}
}
