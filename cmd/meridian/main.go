package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"meridian/internal/engine"
	"meridian/internal/exitcode"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}

	var exitErr *engine.ExitError
	if errors.As(err, &exitErr) {
		// The engine already printed whatever there was to say.
		os.Exit(exitcode.ExitStatus(exitErr.Code))
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(exitcode.ExitStatus(exitcode.Cancelled))
	}
	fmt.Fprintf(os.Stderr, "meridian: %v\n", err)
	os.Exit(1)
}
