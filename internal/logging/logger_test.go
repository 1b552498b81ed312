package logging_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelf/internal/config"
	"shelf/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, closer, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()

	logger = logging.NewComponentLogger(logger, "catalog")
	logger.Info("saved snapshot", logging.Args(
		logging.Int("records", 3),
		logging.String(logging.FieldPath, "/tmp/my library.json"),
	)...)
	logger.Debug("hidden")

	content := readLog(t, logPath)
	if !strings.Contains(content, "INFO catalog: saved snapshot") {
		t.Fatalf("missing component prefix: %q", content)
	}
	if !strings.Contains(content, "records=3") {
		t.Fatalf("missing int field: %q", content)
	}
	if !strings.Contains(content, `path="/tmp/my library.json"`) {
		t.Fatalf("expected quoted path: %q", content)
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug line written at info level: %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()
	logger.WithGroup("load").Debug("message with caller", logging.Args(logging.Error(errors.New("bad data")))...)

	content := readLog(t, logPath)
	if !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
	if !strings.Contains(content, `load.error="bad data"`) {
		t.Fatalf("expected grouped error field, got %q", content)
	}
}

func TestJSONLoggerWritesStructuredLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, closer, err := logging.New(logging.Options{Format: "json", Level: "warn", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer closer.Close()
	logger.Warn("lock busy", logging.Args(
		logging.String(logging.FieldBookID, "b1"),
		logging.Bool("locked", true),
	)...)

	var entry map[string]any
	line := strings.TrimSpace(readLog(t, logPath))
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("decode json log line %q: %v", line, err)
	}
	if entry["level"] != "warn" || entry["msg"] != "lock busy" || entry["book_id"] != "b1" || entry["locked"] != true {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key: %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "never.log")
	if _, _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{logPath}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := os.Stat(logPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("rejected format must not open the log file: %v", err)
	}
}

func TestCloseReleasesLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "closed.log")
	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("before close")

	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
	logger.Info("after close")

	content := readLog(t, logPath)
	if !strings.Contains(content, "before close") {
		t.Fatalf("expected line written before close, got %q", content)
	}
	if strings.Contains(content, "after close") {
		t.Fatalf("log file still written after close: %q", content)
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = t.TempDir()
	cfg.Logging.Level = "info"

	logger, closer, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	defer closer.Close()
	logger.Info("session started")

	if content := readLog(t, cfg.LogPath()); !strings.Contains(content, "session started") {
		t.Fatalf("expected log file to contain message, got %q", content)
	}
}

func TestNewFromConfigWithoutOutputsIsNop(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = ""
	cfg.Logging.Console = false

	logger, closer, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Fatalf("Close on nop logger: %v", err)
	}
	if logger.Enabled(t.Context(), 12) {
		t.Fatal("expected no-op logger")
	}
}
