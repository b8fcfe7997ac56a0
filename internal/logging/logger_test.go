package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flightrec/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONLoggerCarriesSessionAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Format: "json", Writer: &buf, SessionID: "abc123"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()

	NewComponentLogger(logger, "sync").Info("pass verified", slog.Int("pass", 2))
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["level"] != "info" || entry["msg"] != "pass verified" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry[FieldSessionID] != "abc123" || entry[FieldComponent] != "sync" {
		t.Fatalf("missing session or component: %v", entry)
	}
	if entry["pass"] != float64(2) {
		t.Fatalf("pass = %v", entry["pass"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key: %v", entry)
	}
}

func TestConsoleLoggerFormatsHeaderAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()

	NewComponentLogger(logger, "tracklog").WithGroup("track").Warn("skipped", slog.Int("index", 3), slog.String("file", "a b.IGC"))

	out := buf.String()
	if !strings.Contains(out, "WARN  [tracklog] – skipped") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "    track.index: 3\n") || !strings.Contains(out, "    track.file: a b.IGC\n") {
		t.Fatalf("unexpected fields: %q", out)
	}
	if strings.Contains(out, "component:") {
		t.Fatalf("component should be lifted into header: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Format = "json"

	var console bytes.Buffer
	logger, closeFn, err := NewFromConfig(&cfg, &console, "s1")
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) || !strings.Contains(string(data), `"session_id":"s1"`) {
		t.Fatalf("unexpected log file content: %s", data)
	}
	if console.String() != string(data) {
		t.Fatalf("console and file output differ: %q vs %q", console.String(), data)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}
	NewComponentLogger(nil, "x").Error("discarded")
}

func TestWithContextAddsCommandAndDevice(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()

	ctx := WithDevice(WithCommand(t.Context(), "waypoints upload"), "emulator")
	WithContext(ctx, logger).Info("start")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry[FieldCommand] != "waypoints upload" || entry[FieldDevice] != "emulator" {
		t.Fatalf("unexpected context fields: %v", entry)
	}
	if got := WithContext(t.Context(), logger); got != logger {
		t.Fatal("empty context should return the same logger")
	}
}

func TestRunHandlerStampsContextFieldsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Format: "json", Writer: &buf, SessionID: "s9"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()

	ctx := WithDevice(WithCommand(t.Context(), "waypoints upload"), "emulator")
	logger.InfoContext(ctx, "from context")
	WithContext(ctx, logger).InfoContext(ctx, "bound and context")
	logger.InfoContext(ctx, "record wins", slog.String(FieldDevice, "serial"))
	logger.WithGroup("track").InfoContext(ctx, "grouped")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	for i, line := range lines[:2] {
		if n := strings.Count(line, `"command":`); n != 1 {
			t.Fatalf("line %d has %d command keys: %s", i, n, line)
		}
		requireJSONField(t, line, FieldDevice, "emulator")
		requireJSONField(t, line, FieldSessionID, "s9")
	}
	if strings.Count(lines[2], `"device":`) != 1 {
		t.Fatalf("record attribute duplicated: %s", lines[2])
	}
	requireJSONField(t, lines[2], FieldDevice, "serial")
	if strings.Contains(lines[3], `"command":`) {
		t.Fatalf("context fields leaked into group: %s", lines[3])
	}
}

func TestSyncAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeFn()

	logger.Warn("waypoint upload failed", Pass(2), Waypoint("Summit"), Error(nil))
	out := buf.String()
	for _, want := range []string{"pass: 2", "waypoint: Summit"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "error:") {
		t.Fatalf("nil error should be omitted: %q", out)
	}
}

func requireJSONField(t *testing.T, line, key, want string) {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	if entry[key] != want {
		t.Fatalf("%s = %v, want %q in %s", key, entry[key], want, line)
	}
}
