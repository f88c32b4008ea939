package logging_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"logwatch/internal/config"
	"logwatch/internal/logging"
)

func newFileLogger(t *testing.T, opts logging.Options) (*slog.Logger, func() string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.log")
	opts.Outputs = []string{path}
	logger, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, func() string {
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(content)
	}
}

func TestNewFromConfigWritesDaemonLog(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Paths.WatchFile = filepath.Join(t.TempDir(), "app.log")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("daemon log message")

	content, err := os.ReadFile(cfg.DaemonLogPath())
	if err != nil {
		t.Fatalf("read daemon log: %v", err)
	}
	if !strings.Contains(string(content), "daemon log message") {
		t.Fatalf("expected message in daemon log, got %q", content)
	}
}

func TestConsoleLineLayout(t *testing.T) {
	logger, read := newFileLogger(t, logging.Options{Level: "info"})

	logging.NewComponentLogger(logger, "watcher").Info("watcher started",
		logging.String(logging.FieldPath, "/tmp/app log"),
		logging.Int64("offset", 42),
	)

	line := read()
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", line)
	}
	for _, want := range []string{"INFO watcher: watcher started", `path="/tmp/app log"`, "offset=42"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix, got %q", line)
	}
}

func TestConsoleGroupsAreDotted(t *testing.T) {
	logger, read := newFileLogger(t, logging.Options{Level: "info"})
	logger.WithGroup("stream").Info("client", logging.String("addr", "127.0.0.1"))

	if line := read(); !strings.Contains(line, "stream.addr=127.0.0.1") {
		t.Fatalf("expected grouped key, got %q", line)
	}
}

func TestDebugLevelIncludesCaller(t *testing.T) {
	logger, read := newFileLogger(t, logging.Options{Level: "debug"})
	logger.Info("message with caller")

	if !strings.Contains(read(), "logger_test.go:") {
		t.Fatal("expected caller information in debug logs")
	}
}

func TestJSONLoggerFields(t *testing.T) {
	logger, read := newFileLogger(t, logging.Options{Format: "json", Level: "info"})
	logger.Warn("json message", logging.Error(errors.New("boom")))

	var record map[string]any
	if err := json.Unmarshal([]byte(read()), &record); err != nil {
		t.Fatalf("decode json record: %v", err)
	}
	if record["level"] != "warn" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if record["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", record["error"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts field, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelParsing(t *testing.T) {
	cases := []struct {
		level   string
		hidden  func(*slog.Logger)
		visible func(*slog.Logger)
	}{
		{"invalid", func(l *slog.Logger) { l.Debug("hidden") }, func(l *slog.Logger) { l.Info("visible") }},
		{"WARNING", func(l *slog.Logger) { l.Info("hidden") }, func(l *slog.Logger) { l.Warn("visible") }},
		{"error", func(l *slog.Logger) { l.Warn("hidden") }, func(l *slog.Logger) { l.Error("visible") }},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			logger, read := newFileLogger(t, logging.Options{Level: tc.level})
			tc.hidden(logger)
			tc.visible(logger)
			content := read()
			if strings.Contains(content, "hidden") || !strings.Contains(content, "visible") {
				t.Fatalf("unexpected level filtering: %q", content)
			}
		})
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logger, read := newFileLogger(t, logging.Options{Level: "info"})
	logging.WarnWithContext(logger, "read failed", "read_failed",
		logging.String(logging.FieldErrorHint, "check permissions"),
	)

	content := read()
	for _, want := range []string{"event_type=read_failed", `error_hint="check permissions"`, "impact="} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Count(content, "error_hint=") != 1 {
		t.Fatalf("caller-provided hint should replace the default, got %q", content)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("expected no-op logger to be disabled")
	}
	logging.NewComponentLogger(nil, "cli").Error("ignored")
}
