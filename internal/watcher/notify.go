package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// changeNotifier wakes the follower as soon as the file is written so it does
// not sleep out the full poll interval. Polling remains the source of truth:
// a nil notifier or a missed event only costs latency.
type changeNotifier struct {
	fsw *fsnotify.Watcher
}

func newChangeNotifier(path string) (*changeNotifier, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	return &changeNotifier{fsw: fsw}, nil
}

func (n *changeNotifier) events() <-chan fsnotify.Event {
	if n == nil {
		return nil
	}
	return n.fsw.Events
}

func (n *changeNotifier) errors() <-chan error {
	if n == nil {
		return nil
	}
	return n.fsw.Errors
}

func (n *changeNotifier) close() {
	if n == nil {
		return
	}
	_ = n.fsw.Close()
}

// wakes reports whether event may have made new bytes readable.
func wakes(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Chmod)
}
