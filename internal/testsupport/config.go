package testsupport

import (
	"path/filepath"
	"testing"

	"meridian/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. Motion is effectively instant so command tests stay fast; tests
// that need observable travel time lower the slew rate.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Daemon.Endpoint = filepath.Join(base, "meridiand.sock")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Site.Name = "Roque de los Muchachos"
	cfg.Site.Latitude = 28.7624
	cfg.Site.Longitude = -17.8792
	cfg.Site.Elevation = 2396
	cfg.Mount.SlewRate = 100000
	cfg.Mount.HomeSeconds = 0.01
	cfg.Mount.MinAltitude = 10
	cfg.Parks = map[string]config.Park{
		"stow":   {Description: "service position", Alt: 15, Az: 180},
		"zenith": {Description: "rain stow", Alt: 89, Az: 0},
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSlewRate overrides the motion speed in degrees per second.
func WithSlewRate(degPerSecond float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Mount.SlewRate = degPerSecond
	}
}

// WithParks replaces the configured park positions.
func WithParks(parks map[string]config.Park) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Parks = parks
	}
}

// WithEndpoint points the config at an explicit daemon endpoint.
func WithEndpoint(endpoint string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Daemon.Endpoint = endpoint
	}
}
