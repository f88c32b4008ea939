// Package daemon coordinates the long-running logwatch process.
//
// It wires configuration, one file watcher, and the HTTP/WebSocket API into a
// single lifecycle with flock-based locking to prevent multiple instances
// sharing a state directory. WebSocket clients receive a backfill of recent
// lines followed by live lines; each client owns a bounded buffer so a slow
// reader loses lines instead of stalling the follower.
//
// Keep tailing logic in the watcher package: the daemon focuses on startup,
// shutdown, and transport.
package daemon
