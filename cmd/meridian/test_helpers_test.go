package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"meridian/internal/config"
	"meridian/internal/engine"
	"meridian/internal/exitcode"
	"meridian/internal/ipc"
	"meridian/internal/logging"
	"meridian/internal/mount"
)

// runCLI executes the root command with fresh buffers, the way main does
// minus the process exit.
func runCLI(ctx context.Context, args ...string) (string, error) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

// writeConfigFile persists cfg as TOML so the CLI can load it through the
// normal discovery path.
func writeConfigFile(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "meridian.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// eventRecorder collects the command events a live server emits.
type eventRecorder struct {
	mu     sync.Mutex
	events []ipc.CommandEvent
}

func (r *eventRecorder) observe(event ipc.CommandEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) snapshot() []ipc.CommandEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ipc.CommandEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventRecorder) countVerb(verb string) int {
	n := 0
	for _, event := range r.snapshot() {
		if event.Verb == verb {
			n++
		}
	}
	return n
}

// startTestDaemon serves the mount at the configured endpoint for the
// duration of the test and records every executed command.
func startTestDaemon(t *testing.T, cfg *config.Config) (*mount.Simulator, *eventRecorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rec := &eventRecorder{}
	sim := mount.New(cfg, logging.NewNop())
	srv, err := ipc.NewServer(ctx, cfg.Daemon.Endpoint, sim, rec.observe, logging.NewNop())
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping, cannot listen in sandbox: %v", err)
		}
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(srv.Close)
	srv.Serve()
	return sim, rec
}

func requireExitCode(t *testing.T, err error, want exitcode.Code) {
	t.Helper()
	var exitErr *engine.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("want exit code %d, got error %v", want, err)
	}
	if exitErr.Code != want {
		t.Fatalf("exit code = %d, want %d", exitErr.Code, want)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

func waitFor(t *testing.T, timeout time.Duration, check func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", message)
}
