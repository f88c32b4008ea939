// Package config loads, normalizes, and validates logwatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the LOGWATCH_FILE environment
// fallback. The Config type centralizes every knob the daemon and CLI need so
// the followed file, state directory, and API bind address are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
