package watcher

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"logwatch/internal/logging"
	"logwatch/internal/textenc"
)

// DefaultReplayLines is the backfill size used when callers do not specify one.
const DefaultReplayLines = 10

// LastLines returns the last n non-empty lines in file order. Blank lines are
// skipped and do not count toward n. It reads the file independently of the
// follower. A missing file or any read failure yields an empty result;
// failures are logged.
func (w *Watcher) LastLines(n int) []string {
	lines, err := ReadLastLines(w.path, n)
	if err != nil {
		w.logger.Warn("replay read failed",
			logging.String(logging.FieldEventType, "replay_failed"),
			logging.Int("lines", n),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check file permissions"),
		)
		return []string{}
	}
	return lines
}

// ReadLastLines returns up to limit of the most recent non-empty lines of the
// file at path, decoded with the encoding detected from its byte-order mark.
// A missing file yields an empty result and no error.
func ReadLastLines(path string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	enc := textenc.Detect(path)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	// ReadString has no line length cap, unlike bufio.Scanner.
	reader := bufio.NewReader(enc.NewReader(file))
	ring := make([]string, limit)
	count := 0
	idx := 0
	for {
		raw, readErr := reader.ReadString('\n')
		if line := textenc.CleanLine(raw); line != "" {
			ring[idx] = line
			idx = (idx + 1) % limit
			if count < limit {
				count++
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read log file: %w", readErr)
		}
	}

	lines := make([]string, count)
	if count == limit {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}
