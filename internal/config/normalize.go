package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDaemon()
	c.Site.Name = strings.TrimSpace(c.Site.Name)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDaemon() {
	c.Daemon.Endpoint = strings.TrimSpace(c.Daemon.Endpoint)
	if c.Daemon.Endpoint == "" {
		c.Daemon.Endpoint = filepath.Join(c.Paths.DataDir, defaultSocketName)
	}
	c.Daemon.MetricsBind = strings.TrimSpace(c.Daemon.MetricsBind)
	c.Daemon.LogLevel = strings.ToLower(strings.TrimSpace(c.Daemon.LogLevel))
	if c.Daemon.LogLevel == "" {
		c.Daemon.LogLevel = defaultLogLevel
	}
	c.Daemon.LogFormat = strings.ToLower(strings.TrimSpace(c.Daemon.LogFormat))
	if c.Daemon.LogFormat == "" {
		c.Daemon.LogFormat = defaultLogFormat
	}
	if c.Daemon.QueryTimeoutSeconds == 0 {
		c.Daemon.QueryTimeoutSeconds = defaultQueryTimeoutSeconds
	}
}
