// Package api defines the wire-format types exchanged between the logwatch
// daemon and its clients, plus a small HTTP client used by the CLI.
//
// # Endpoints
//
// GET /api/status returns StatusResponse describing the follower.
//
// GET /api/lines?n=N returns LinesResponse with the most recent non-empty lines.
//
// GET /ws upgrades to a WebSocket that sends StreamMessage frames: a backfill
// frame first, then one frame per appended line.
//
// # Design Notes
//
// JSON tags are camelCase for browser consumers. Encodings are exposed by name
// ("utf-8", "utf-8-sig", "utf-16-le", "utf-16-be").
package api
