package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"logwatch/internal/api"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

var statusStyles = [...]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	statusLabelWidth = 14
	statusIndent     = "  "
)

// renderStatusLine formats "  Label:        [KIND] message", wrapped in the
// kind's ANSI colour when colorize is set.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	if colorize {
		return style.color + line + ansiReset
	}
	return line
}

// statusLines renders a daemon status report, one line per field.
func statusLines(status *api.StatusResponse, colorize bool) []string {
	if status == nil {
		return []string{renderStatusLine("Daemon", statusError, "not reachable", colorize)}
	}
	followerKind := statusOK
	if !status.Running {
		followerKind = statusWarn
	}
	subscriberKind := statusInfo
	if status.Subscribers == 0 {
		subscriberKind = statusWarn
	}
	return []string{
		renderStatusLine("Daemon", statusOK, fmt.Sprintf("pid %d", status.PID), colorize),
		renderStatusLine("Follower", followerKind, status.State, colorize),
		renderStatusLine("File", statusInfo, status.Path, colorize),
		renderStatusLine("Encoding", statusInfo, status.Encoding, colorize),
		renderStatusLine("Offset", statusInfo, fmt.Sprintf("%d bytes", status.Offset), colorize),
		renderStatusLine("Subscribers", subscriberKind, fmt.Sprintf("%d", status.Subscribers), colorize),
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
