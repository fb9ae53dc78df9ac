package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

var _ probing.Logger = slogLogger{}

func TestCheck_EmptyHost(t *testing.T) {
	p := New(Config{Host: "", Timeout: time.Second, PayloadSize: 56, ID: 111})

	res := p.Check(context.Background())
	if res.OK {
		t.Fatal("Check succeeded for empty host")
	}
	if res.Error == "" {
		t.Error("Error is empty")
	}
	if res.CheckedAt.IsZero() {
		t.Error("CheckedAt not set")
	}
	if p.Connected(context.Background()) {
		t.Error("Connected = true for empty host")
	}
}

func TestCheck_PayloadTooSmall(t *testing.T) {
	p := New(Config{Host: "127.0.0.1", Timeout: time.Second, PayloadSize: 8, ID: 111})

	res := p.Check(context.Background())
	if res.OK {
		t.Fatal("Check succeeded with undersized payload")
	}
	if !strings.Contains(res.Error, "size") {
		t.Errorf("Error = %q, want a size error", res.Error)
	}
}

func TestResult_JSON(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(Result{Target: "google.fr", Address: "142.250.0.1", OK: true, LatencyMS: 12.5, CheckedAt: at})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"target":"google.fr","address":"142.250.0.1","ok":true,"latency_ms":12.5,"checked_at":"2024-05-01T12:00:00Z"}`
	if string(data) != want {
		t.Errorf("Marshal = %s\nwant      %s", data, want)
	}
}

func TestResult_Text(t *testing.T) {
	ok := Result{Target: "google.fr", OK: true, LatencyMS: 9.25}
	if got := ok.Text(); got != "google.fr reachable in 9.2ms" && got != "google.fr reachable in 9.3ms" {
		t.Errorf("Text() = %q", got)
	}
	fail := Result{Target: "google.fr", Error: ErrNoReply.Error()}
	if got := fail.Text(); got != "google.fr unreachable: no echo reply" {
		t.Errorf("Text() = %q", got)
	}
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slogLogger{slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	l.Debugf("sent %d bytes", 64)
	l.Fatalf("cannot %s", "listen")

	out := buf.String()
	if !strings.Contains(out, `msg="sent 64 bytes"`) || !strings.Contains(out, "level=DEBUG") {
		t.Errorf("debug line missing: %q", out)
	}
	if !strings.Contains(out, `msg="cannot listen"`) || !strings.Contains(out, "level=ERROR") {
		t.Errorf("fatal line not downgraded to error: %q", out)
	}
}
