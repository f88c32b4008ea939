// Package main hosts the logwatch CLI entrypoint and command graph.
//
// The Cobra command tree runs the daemon in the foreground (serve), replays or
// follows a log file directly (lines, follow), queries a running daemon over
// HTTP or WebSocket (status, and the --remote variants), and scaffolds
// configuration (config). Configuration resolution happens once per
// invocation in commandContext so subcommands only deal with presentation.
package main
