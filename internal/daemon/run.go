package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"meridian/internal/config"
	"meridian/internal/ipc"
	"meridian/internal/journal"
	"meridian/internal/logging"
	"meridian/internal/metrics"
	"meridian/internal/mount"
	"meridian/internal/preflight"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides the configured level when non-empty.
	LogLevel string
}

// Run starts the meridiand runtime loop and blocks until ctx is
// cancelled or startup fails. Shutdown drains in-flight commands,
// closes the journal, and removes the pid file and socket.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("meridiand-%s.log", runID))
	level := opts.LogLevel
	if strings.TrimSpace(level) == "" {
		level = cfg.Daemon.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Daemon.LogFormat,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update meridiand.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Paths.LogRetentionDays, cfg.Paths.LogDir, "meridiand-*.log", logPath)

	if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
		for _, check := range failed {
			logger.Error("preflight check failed",
				logging.String("check", check.Name),
				logging.String("detail", check.Detail))
		}
		return fmt.Errorf("preflight: %d check(s) failed", len(failed))
	}

	// The lock comes before the IPC server so a second instance can
	// never unlink a live socket.
	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another meridiand instance is already running (lock %s)", cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	if err := writePIDFile(cfg.PIDPath()); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(cfg.PIDPath())

	jrnl, err := journal.Open(cfg.JournalPath())
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jrnl.Close()
	if stats, err := jrnl.Stats(ctx); err != nil {
		logger.Warn("journal stats unavailable", logging.Error(err))
	} else {
		total := 0
		for _, count := range stats {
			total += count
		}
		logger.Info("journal opened",
			logging.String("path", jrnl.Path()),
			logging.Int("prior_commands", total))
	}

	sessionID := uuid.NewString()
	sim := mount.New(cfg, logger)
	collector := metrics.NewCollector(sim.State)

	observer := func(event ipc.CommandEvent) {
		collector.ObserveCommand(event)
		entry := journal.Entry{
			SessionID:  sessionID,
			Verb:       event.Verb,
			Arguments:  event.Arguments,
			Code:       event.Code,
			StartedAt:  event.StartedAt,
			FinishedAt: event.StartedAt.Add(event.Duration),
		}
		if err := jrnl.Record(context.Background(), entry); err != nil {
			logger.Warn("journal write failed", logging.Error(err))
		}
	}

	server, err := ipc.NewServer(ctx, cfg.Daemon.Endpoint, sim, observer, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer server.Close()
	server.Serve()

	if bind := strings.TrimSpace(cfg.Daemon.MetricsBind); bind != "" {
		metricsServer, err := metrics.NewServer(collector, bind, logger)
		if err != nil {
			logger.Warn("metrics endpoint unavailable", logging.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := metricsServer.Close(shutdownCtx); err != nil {
					logger.Warn("metrics shutdown failed", logging.Error(err))
				}
			}()
		}
	}

	logger.Info("meridiand started",
		logging.String("session_id", sessionID),
		logging.String("endpoint", cfg.Daemon.Endpoint),
		logging.String("site", cfg.Site.Name),
		logging.String("log_path", logPath))

	<-ctx.Done()
	logger.Info("meridiand shutting down")
	return nil
}

// ensureCurrentLogPointer keeps a stable meridiand.log name pointing at
// the newest per-run log file.
func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "meridiand.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
