// Package logging assembles structured slog loggers used across logwatch.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers and standard field keys so the
// watcher, daemon, and CLI emit records with the same shape. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
