package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/tomb.v2"

	"logwatch/internal/logging"
	"logwatch/internal/metrics"
	"logwatch/internal/textenc"
)

// DefaultPollInterval is the pause between read attempts that found no
// complete line.
const DefaultPollInterval = 100 * time.Millisecond

// State describes the follower lifecycle.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "stopped"
	}
}

// Options configures a Watcher.
type Options struct {
	PollInterval time.Duration
	Logger       *slog.Logger
	// PollOnly disables filesystem change notifications.
	PollOnly bool
}

// Watcher follows a single file and fans each new line out to subscribers.
type Watcher struct {
	path     string
	interval time.Duration
	pollOnly bool
	logger   *slog.Logger

	subs registry

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex
	state     atomic.Int32
	tomb      atomic.Pointer[tomb.Tomb]
	offset    atomic.Int64
	encoding  atomic.Int32
}

// New constructs a stopped watcher bound to path.
func New(path string, opts Options) *Watcher {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		path:     path,
		interval: interval,
		pollOnly: opts.PollOnly,
		logger: logging.NewComponentLogger(opts.Logger, "watcher").With(
			logging.String(logging.FieldPath, path),
		),
	}
}

// Path returns the file being followed.
func (w *Watcher) Path() string {
	return w.path
}

// Offset returns the byte offset just past the last complete line read. The
// value is retained after Stop.
func (w *Watcher) Offset() int64 {
	return w.offset.Load()
}

// Encoding returns the encoding detected by the most recent Start.
func (w *Watcher) Encoding() textenc.Encoding {
	return textenc.Encoding(w.encoding.Load())
}

// State reports the lifecycle state. A follower that exited because its
// context ended reports StateStopped.
func (w *Watcher) State() State {
	state := State(w.state.Load())
	if state == StateRunning {
		if t := w.tomb.Load(); t == nil || !t.Alive() {
			return StateStopped
		}
	}
	return state
}

// Running reports whether the follower goroutine is active.
func (w *Watcher) Running() bool {
	return w.State() == StateRunning
}

// Start opens the file at its current end and launches the follower. It is a
// no-op while the follower is already running. The follower stops when ctx
// ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if w.Running() {
		return nil
	}
	if t := w.tomb.Load(); t != nil {
		// Reap a follower that already exited on context cancellation.
		_ = t.Wait()
		w.tomb.Store(nil)
	}

	w.state.Store(int32(StateStarting))
	file, enc, offset, err := w.open()
	if err != nil {
		w.state.Store(int32(StateStopped))
		return err
	}
	w.encoding.Store(int32(enc))
	w.offset.Store(offset)

	var notifier *changeNotifier
	if !w.pollOnly {
		if notifier, err = newChangeNotifier(w.path); err != nil {
			w.logger.Debug("change notifications unavailable; polling only", logging.Error(err))
		}
	}

	t, _ := tomb.WithContext(ctx)
	w.tomb.Store(t)
	w.state.Store(int32(StateRunning))
	t.Go(func() error {
		return w.follow(t, file, notifier, enc, offset)
	})

	w.logger.Info("watcher started",
		logging.String(logging.FieldEventType, "watcher_started"),
		logging.String("encoding", enc.String()),
		logging.Int64("offset", offset),
	)
	return nil
}

// Stop halts the follower and waits for it to exit. No notification is in
// flight once Stop returns. Stop must not be called from a subscriber callback.
func (w *Watcher) Stop() {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	t := w.tomb.Load()
	if t == nil {
		w.state.Store(int32(StateStopped))
		return
	}
	w.state.Store(int32(StateStopping))
	t.Kill(nil)
	if err := t.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		w.logger.Warn("watcher exited with error", logging.Error(err))
	}
	w.tomb.Store(nil)
	w.state.Store(int32(StateStopped))
	w.logger.Info("watcher stopped",
		logging.String(logging.FieldEventType, "watcher_stopped"),
		logging.Int64("offset", w.offset.Load()),
	)
}

func (w *Watcher) open() (*os.File, textenc.Encoding, int64, error) {
	if dir := filepath.Dir(w.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, textenc.UTF8, 0, fmt.Errorf("create log directory: %w", err)
		}
	}
	created, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, textenc.UTF8, 0, fmt.Errorf("ensure log file: %w", err)
	}
	_ = created.Close()

	enc := textenc.Detect(w.path)

	file, err := os.Open(w.path)
	if err != nil {
		return nil, enc, 0, fmt.Errorf("open log file: %w", err)
	}
	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return nil, enc, 0, fmt.Errorf("seek log file: %w", err)
	}
	return file, enc, offset, nil
}

// follow runs the poll-read-notify cycle until the tomb starts dying.
func (w *Watcher) follow(t *tomb.Tomb, file *os.File, notifier *changeNotifier, enc textenc.Encoding, offset int64) error {
	defer file.Close()
	defer notifier.close()

	reader := newLineReader(file, enc, offset)
	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	var lastErr string
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		raw, ok, truncated, err := reader.next()
		if truncated {
			metrics.Truncations.WithLabelValues(w.path).Inc()
			w.logger.Info("log file shrank; restarting from the beginning",
				logging.String(logging.FieldEventType, "file_truncated"),
			)
		}
		if err != nil {
			if msg := err.Error(); msg != lastErr {
				lastErr = msg
				logging.WarnWithContext(w.logger, "log read failed; retrying", "read_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check file permissions and storage health"),
				)
			}
		} else {
			lastErr = ""
		}

		if ok {
			if line := textenc.CleanLine(enc.Decode(raw)); line != "" {
				w.notify(line)
			}
			w.offset.Store(reader.offset)
			continue
		}
		if truncated {
			w.offset.Store(reader.offset)
		}

		timer.Reset(w.interval)
	wait:
		for {
			select {
			case <-t.Dying():
				return nil
			case <-timer.C:
				break wait
			case event, ok := <-notifier.events():
				if !ok {
					notifier = nil
					continue
				}
				if wakes(event) {
					break wait
				}
			case err, ok := <-notifier.errors():
				if !ok {
					notifier = nil
					continue
				}
				w.logger.Debug("change notification error", logging.Error(err))
			}
		}
	}
}
