// Package config loads, normalizes, and validates meridian configuration.
//
// It discovers the config file (explicit path, MERIDIAN_CONFIG, or exactly
// one JSON/TOML file in ~/.config/meridian), expands user paths including
// tilde shortcuts, and applies repository defaults. The Config type
// centralizes every knob the daemon and CLI share: the daemon endpoint,
// observing site, mount behaviour, and the named park positions.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
