package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDaemon(); err != nil {
		return err
	}
	if err := c.validateSite(); err != nil {
		return err
	}
	if err := c.validateMount(); err != nil {
		return err
	}
	return c.validateParks()
}

func (c *Config) validateDaemon() error {
	if c.Daemon.Endpoint == "" {
		return errors.New("daemon.endpoint must be set")
	}
	if c.Daemon.QueryTimeoutSeconds < 0 {
		return errors.New("daemon.query_timeout_seconds must not be negative")
	}
	switch c.Daemon.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("daemon.log_format must be console or json, got %q", c.Daemon.LogFormat)
	}
	return nil
}

func (c *Config) validateSite() error {
	if c.Site.Latitude < -90 || c.Site.Latitude > 90 {
		return errors.New("site.latitude must be between -90 and 90")
	}
	if c.Site.Longitude < -180 || c.Site.Longitude > 180 {
		return errors.New("site.longitude must be between -180 and 180")
	}
	return nil
}

func (c *Config) validateMount() error {
	if c.Mount.SlewRate <= 0 {
		return errors.New("mount.slew_rate must be positive (degrees per second)")
	}
	if c.Mount.HomeSeconds <= 0 {
		return errors.New("mount.home_seconds must be positive")
	}
	if c.Mount.MinAltitude < 0 || c.Mount.MinAltitude >= 90 {
		return errors.New("mount.min_altitude must be between 0 and 90")
	}
	return nil
}

func (c *Config) validateParks() error {
	for name, park := range c.Parks {
		if strings.TrimSpace(name) == "" {
			return errors.New("parks must have non-empty names")
		}
		if park.Alt < c.Mount.MinAltitude || park.Alt > 90 {
			return fmt.Errorf("parks.%s.alt %.1f must be between mount.min_altitude (%.1f) and 90", name, park.Alt, c.Mount.MinAltitude)
		}
		if park.Az < 0 || park.Az >= 360 {
			return fmt.Errorf("parks.%s.az %.1f must be between 0 and 360", name, park.Az)
		}
	}
	return nil
}
