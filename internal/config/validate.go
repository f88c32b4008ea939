package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTail(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WatchFile) == "" {
		return errors.New("paths.watch_file must be set (or export LOGWATCH_FILE)")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if filepath.Clean(c.Paths.WatchFile) == filepath.Clean(c.DaemonLogPath()) {
		return fmt.Errorf("paths.watch_file %q must differ from the daemon log", c.Paths.WatchFile)
	}
	return nil
}

func (c *Config) validateTail() error {
	if c.Tail.PollIntervalMS <= 0 {
		return errors.New("tail.poll_interval_ms must be positive")
	}
	if c.Tail.ReplayLines < 0 {
		return errors.New("tail.replay_lines must be >= 0")
	}
	if c.Tail.ClientBuffer <= 0 {
		return errors.New("tail.client_buffer must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
