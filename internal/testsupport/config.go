package testsupport

import (
	"path/filepath"
	"testing"

	"logwatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchFile = filepath.Join(base, "logs", "app.log")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Tail.PollIntervalMS = 10

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithReplayLines overrides the backfill size.
func WithReplayLines(n int) ConfigOption {
	return func(c *config.Config) {
		c.Tail.ReplayLines = n
	}
}

// WithClientBuffer overrides the per-client stream buffer.
func WithClientBuffer(n int) ConfigOption {
	return func(c *config.Config) {
		c.Tail.ClientBuffer = n
	}
}
