package logging_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tabletcycle/internal/config"
	"tabletcycle/internal/logging"
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
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "coordinator").Info("cycled",
		logging.String(logging.FieldDisplay, "DP-2"),
		logging.Int(logging.FieldCycleIndex, 1),
		logging.Strings("tablets", []string{"pen", "eraser"}),
	)

	line := readLog(t, logPath)
	for _, want := range []string{" INFO coordinator: cycled", "display=DP-2", "cycle_index=1", "tablets=pen,eraser"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as prefix only, got %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("file output must not be colorized, got %q", line)
	}
}

func TestConsoleLoggerQuotesValuesAndHonoursLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Level: "warn", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible", logging.String(logging.FieldTablet, "Wacom Intuos Pro M Pen stylus"), logging.Error(errors.New("exit status 1")))

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden") {
		t.Fatalf("info record should be filtered at warn level: %q", content)
	}
	if !strings.Contains(content, `tablet="Wacom Intuos Pro M Pen stylus"`) {
		t.Fatalf("expected quoted tablet name, got %q", content)
	}
	if !strings.Contains(content, `error="exit status 1"`) {
		t.Fatalf("expected quoted error, got %q", content)
	}
}

func TestConsoleLoggerForcedColor(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "color.log")
	color := true
	logger, err := logging.New(logging.Options{OutputPaths: []string{logPath}, Color: &color})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Error("boom")
	if content := readLog(t, logPath); !strings.Contains(content, "\x1b[31mERROR\x1b[0m") {
		t.Fatalf("expected colored level label, got %q", content)
	}
}

func TestDebugLoggerIncludesSource(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("with caller")
	if content := readLog(t, logPath); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("marker written", logging.Int(logging.FieldPID, 4242))

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record["msg"] != "marker written" || record["level"] != "info" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record[logging.FieldPID] != float64(4242) {
		t.Fatalf("unexpected pid field: %v", record[logging.FieldPID])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "nested", "tabletcycle.log")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello file")
	if content := readLog(t, cfg.Logging.File); !strings.Contains(content, "hello file") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "mapping failed", "mapper_failed",
		logging.String(logging.FieldImpact, "tablet stays on previous display"),
	)
	content := readLog(t, logPath)
	for _, want := range []string{"event_type=mapper_failed", `impact="tablet stays on previous display"`, "error_hint="} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}

	// nil logger must be tolerated
	logging.WarnWithContext(nil, "ignored", "noop")
	logging.ErrorWithContext(nil, "ignored", "noop")
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), 12) {
		t.Fatal("nop logger must not be enabled")
	}
	logger.Error("dropped")
}
