package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvConfigPath names an explicit config file and bypasses directory
// discovery.
const EnvConfigPath = "MERIDIAN_CONFIG"

// Daemon contains the connection and logging settings for meridiand.
type Daemon struct {
	// Endpoint is a unix socket path (contains a slash) or a TCP host:port.
	Endpoint            string `toml:"endpoint" json:"endpoint"`
	QueryTimeoutSeconds int    `toml:"query_timeout_seconds" json:"query_timeout_seconds"`
	MetricsBind         string `toml:"metrics_bind" json:"metrics_bind"`
	LogLevel            string `toml:"log_level" json:"log_level"`
	LogFormat           string `toml:"log_format" json:"log_format"`
}

// Site describes the observing location. Longitude is east-positive.
type Site struct {
	Name      string  `toml:"name" json:"name"`
	Latitude  float64 `toml:"latitude" json:"latitude"`
	Longitude float64 `toml:"longitude" json:"longitude"`
	Elevation float64 `toml:"elevation_m" json:"elevation_m"`
}

// Mount contains the motion model the daemon simulates and enforces.
type Mount struct {
	// SlewRate is the angular speed in degrees per second.
	SlewRate float64 `toml:"slew_rate" json:"slew_rate"`
	// HomeSeconds is how long the homing sequence takes.
	HomeSeconds float64 `toml:"home_seconds" json:"home_seconds"`
	// MinAltitude is the pointing limit in degrees above the horizon.
	MinAltitude float64 `toml:"min_altitude" json:"min_altitude"`
}

// Park is a named horizontal position the mount can be stowed at.
type Park struct {
	Description string  `toml:"description" json:"description"`
	Alt         float64 `toml:"alt" json:"alt"`
	Az          float64 `toml:"az" json:"az"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir          string `toml:"data_dir" json:"data_dir"`
	LogDir           string `toml:"log_dir" json:"log_dir"`
	LogRetentionDays int    `toml:"log_retention_days" json:"log_retention_days"`
}

// Config encapsulates all configuration values shared by meridian and
// meridiand.
type Config struct {
	Daemon Daemon          `toml:"daemon" json:"daemon"`
	Site   Site            `toml:"site" json:"site"`
	Mount  Mount           `toml:"mount" json:"mount"`
	Parks  map[string]Park `toml:"parks" json:"parks"`
	Paths  Paths           `toml:"paths" json:"paths"`
}

// DefaultConfigDir returns the discovery directory searched when no explicit
// config path is given.
func DefaultConfigDir() (string, error) {
	return expandPath("~/.config/meridian")
}

// Load locates, parses, and validates a configuration file. An empty path
// triggers discovery via MERIDIAN_CONFIG and then the default directory.
// The returned config has all path fields expanded and normalized.
func Load(path string) (*Config, string, error) {
	resolvedPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", err
	}

	cfg := Default()
	if err := decodeFile(resolvedPath, &cfg); err != nil {
		return nil, "", err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("config file %s does not exist (create one with 'meridian config init')", expanded)
			}
			return "", fmt.Errorf("stat config: %w", err)
		}
		return expanded, nil
	}
	return discoverConfigPath()
}

// discoverConfigPath expects exactly one JSON or TOML file in the default
// directory and explains how to disambiguate otherwise.
func discoverConfigPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read config directory: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".toml":
			candidates = append(candidates, filepath.Join(dir, entry.Name()))
		}
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("no config file found in %s: create one with 'meridian config init', or point --config or %s at a file", dir, EnvConfigPath)
	case 1:
		return candidates[0], nil
	}
	sort.Strings(candidates)
	return "", fmt.Errorf("multiple config files found in %s (%s): keep one, or select with --config or %s",
		dir, strings.Join(candidates, ", "), EnvConfigPath)
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

// ParkNames returns the configured park names in alphabetical order.
func (c *Config) ParkNames() []string {
	names := make([]string, 0, len(c.Parks))
	for name := range c.Parks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QueryTimeout is the bound on short daemon calls, in seconds as configured.
func (c *Config) QueryTimeout() int {
	return c.Daemon.QueryTimeoutSeconds
}

// JournalPath locates the shared command journal database.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.DataDir, "journal.db")
}

// PIDPath locates the daemon pid file.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Paths.DataDir, "meridiand.pid")
}

// LockPath locates the daemon single-instance lock.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "meridiand.lock")
}

// EnsureDirectories creates the directories daemon operation needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a commented sample configuration file.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
