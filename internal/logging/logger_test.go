package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"meridian/internal/logging"
)

func TestConsoleHandlerShape(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	scoped := logging.NewComponentLogger(logger, "mount")
	scoped.Info("slew accepted", logging.Float64("ra", 180), logging.String("target", "m51 field"))
	scoped.Debug("suppressed at info level")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO mount: slew accepted") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "ra=180") {
		t.Fatalf("missing flattened attr in %q", line)
	}
	if !strings.Contains(line, `target="m51 field"`) {
		t.Fatalf("missing quoted attr in %q", line)
	}
	if strings.Contains(line, "suppressed") {
		t.Fatalf("debug line leaked through info level: %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("info line carries caller info: %q", line)
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Error("dial failed", logging.Error(os.ErrNotExist))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, want := range []string{`"ts":`, `"level":"error"`, `"msg":"dial failed"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("json line missing %s: %q", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestCleanupOldLogsHonorsKeepList(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "run-old.log")
	keepPath := filepath.Join(dir, "run-current.log")
	for _, p := range []string{oldPath, keepPath} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		stale := time.Now().AddDate(0, 0, -30)
		if err := os.Chtimes(p, stale, stale); err != nil {
			t.Fatal(err)
		}
	}

	logging.CleanupOldLogs(logging.NewNop(), 7, dir, "run-*.log", keepPath)

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("stale log not pruned: %v", err)
	}
	if _, err := os.Stat(keepPath); err != nil {
		t.Fatalf("kept log was pruned: %v", err)
	}
}
