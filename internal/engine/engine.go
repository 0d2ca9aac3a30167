package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"log/slog"

	"meridian/internal/exitcode"
	"meridian/internal/ipc"
	"meridian/internal/logging"
)

// HandlerFunc executes a command body. The code carries the command
// outcome; the error is reserved for cancellation and transport faults.
type HandlerFunc func(ctx context.Context, args []string) (exitcode.Code, error)

// StopFunc issues a single mount stop on a fresh connection.
type StopFunc func(ctx context.Context) (exitcode.Code, error)

// Command describes one executable verb.
type Command struct {
	Name string

	// StopOnCancel substitutes a mount stop when the command is
	// interrupted. Motion verbs set it; status and stop itself do not.
	StopOnCancel bool

	Handler HandlerFunc
}

// ExitError carries the final status code to the process boundary.
type ExitError struct {
	Code exitcode.Code
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("status %d (%s)", int(e.Code), e.Code)
}

// Engine runs commands and owns the one place where status messages are
// printed.
type Engine struct {
	out    io.Writer
	stop   StopFunc
	logger *slog.Logger
}

// New builds an engine. stop may be nil when no daemon stop is available;
// interrupts then report cancellation without a substitution.
func New(out io.Writer, stop StopFunc, logger *slog.Logger) *Engine {
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		out:    out,
		stop:   stop,
		logger: logging.NewComponentLogger(logger, "engine"),
	}
}

// Run executes the command and returns the final status code. Codes other
// than success and already-reported print their table message, exactly
// once.
func (e *Engine) Run(ctx context.Context, cmd Command, args []string) exitcode.Code {
	code, err := cmd.Handler(ctx, args)
	code = e.classify(cmd, code, err)
	if code != exitcode.Succeeded && code != exitcode.Reported {
		fmt.Fprintln(e.out, exitcode.Describe(code))
	}
	return code
}

func (e *Engine) classify(cmd Command, code exitcode.Code, err error) exitcode.Code {
	switch {
	case err == nil:
		return code
	case isCancellation(err):
		if cmd.StopOnCancel && e.stop != nil {
			return e.stopAfterCancel(cmd)
		}
		return exitcode.Cancelled
	case ipc.IsCommunication(err):
		e.logger.Debug("communication failure",
			logging.String("command", cmd.Name),
			logging.Error(err))
		return exitcode.Unreachable
	default:
		e.logger.Warn("unexpected handler error",
			logging.String("command", cmd.Name),
			logging.Error(err))
		return exitcode.Failed
	}
}

// stopAfterCancel substitutes exactly one stop for the interrupted
// command. The fresh context keeps the stop from being cancelled along
// with the command; the stop function bounds its own round-trip.
func (e *Engine) stopAfterCancel(cmd Command) exitcode.Code {
	e.logger.Info("command interrupted, stopping mount",
		logging.String("command", cmd.Name))
	code, err := e.stop(context.Background())
	switch {
	case err == nil && code == exitcode.Succeeded:
		return exitcode.Cancelled
	case err == nil:
		return code
	default:
		return exitcode.Unreachable
	}
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
