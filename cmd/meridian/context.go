package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"meridian/internal/config"
	"meridian/internal/engine"
	"meridian/internal/exitcode"
	"meridian/internal/ipc"
	"meridian/internal/logging"
)

// commandContext carries the pieces every verb needs: flag values, the
// lazily loaded configuration, and connection helpers. The configuration
// is loaded at most once per process.
type commandContext struct {
	configFlag   *string
	endpointFlag *string

	once       sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, endpointFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		endpointFlag: endpointFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configPath, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) resolvedConfigPath() string {
	_, _ = c.ensureConfig()
	return c.configPath
}

// endpoint resolves the daemon address, explicit flag first.
func (c *commandContext) endpoint() string {
	if c.endpointFlag != nil {
		if ep := strings.TrimSpace(*c.endpointFlag); ep != "" {
			return ep
		}
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.Daemon.Endpoint
	}
	return ""
}

func (c *commandContext) queryTimeout() time.Duration {
	if cfg := c.configValue(); cfg != nil && cfg.QueryTimeout() > 0 {
		return time.Duration(cfg.QueryTimeout()) * time.Second
	}
	return 5 * time.Second
}

// dialQuery opens a connection whose calls are bounded by the query
// timeout. Used for everything that answers quickly.
func (c *commandContext) dialQuery() (*ipc.Client, error) {
	return ipc.Dial(c.endpoint(), c.queryTimeout())
}

// dialMotion opens a connection with unbounded calls. A slew finishes
// when the mechanics say, not the network.
func (c *commandContext) dialMotion() (*ipc.Client, error) {
	return ipc.Dial(c.endpoint(), 0)
}

// pingDaemon is the liveness round-trip issued before any motion call,
// on its own short-timeout connection. A dead daemon fails here instead
// of hanging an unbounded call.
func (c *commandContext) pingDaemon(ctx context.Context) error {
	client, err := c.dialQuery()
	if err != nil {
		return err
	}
	defer client.Close()
	_, err = client.Ping(ctx)
	return err
}

// stopFunc builds the interrupt substitution: one stop on a fresh
// bounded connection, because the interrupted command's connection is
// already abandoned mid-call.
func (c *commandContext) stopFunc() engine.StopFunc {
	return func(ctx context.Context) (exitcode.Code, error) {
		client, err := c.dialQuery()
		if err != nil {
			return 0, err
		}
		defer client.Close()
		return client.Stop(ctx)
	}
}

// runVerb executes one command through the engine and converts the final
// code into the error the process boundary understands.
func (c *commandContext) runVerb(cmd *cobra.Command, command engine.Command, args []string) error {
	eng := engine.New(cmd.OutOrStdout(), c.stopFunc(), logging.NewNop())
	code := eng.Run(cmd.Context(), command, args)
	if code == exitcode.Succeeded {
		return nil
	}
	return &engine.ExitError{Code: code}
}

// queryCall wraps a short daemon call as a command handler.
func (c *commandContext) queryCall(fn func(ctx context.Context, client *ipc.Client) (exitcode.Code, error)) engine.HandlerFunc {
	return func(ctx context.Context, _ []string) (exitcode.Code, error) {
		client, err := c.dialQuery()
		if err != nil {
			return 0, err
		}
		defer client.Close()
		return fn(ctx, client)
	}
}

// motionCall wraps a motion RPC as a command handler: liveness ping
// first, then the unbounded call.
func (c *commandContext) motionCall(fn func(ctx context.Context, client *ipc.Client) (exitcode.Code, error)) engine.HandlerFunc {
	return func(ctx context.Context, _ []string) (exitcode.Code, error) {
		if err := c.pingDaemon(ctx); err != nil {
			return 0, err
		}
		client, err := c.dialMotion()
		if err != nil {
			return 0, err
		}
		defer client.Close()
		return fn(ctx, client)
	}
}
