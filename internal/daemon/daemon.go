package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"logwatch/internal/config"
	"logwatch/internal/logging"
	"logwatch/internal/watcher"
)

// Daemon owns the watcher and API server and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	watcher *watcher.Watcher
	api     *apiServer

	lockPath string
	lock     *flock.Flock

	// mu serializes Start and Stop.
	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	State        watcher.State
	PID          int
	Path         string
	Encoding     string
	Offset       int64
	Subscribers  int
	LockFilePath string
}

// New constructs a daemon for cfg. The API server is disabled when
// cfg.Paths.APIBind is empty.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}
	d.watcher = watcher.New(cfg.Paths.WatchFile, watcher.Options{
		PollInterval: cfg.PollInterval(),
		PollOnly:     cfg.Tail.PollOnly,
		Logger:       logger,
	})
	d.api = newAPIServer(cfg, d.watcher, logger)
	return d, nil
}

// Start acquires the daemon lock, starts following the watch file, and opens
// the API listener.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another logwatch daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.watcher.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start watcher: %w", err)
	}
	if err := d.api.start(runCtx); err != nil {
		d.watcher.Stop()
		cancel()
		_ = d.lock.Unlock()
		return err
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("logwatch daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String(logging.FieldPath, d.cfg.Paths.WatchFile),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop closes the API, stops the watcher, and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.watcher.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("logwatch daemon stopped",
		logging.String(logging.FieldEventType, "daemon_stopped"),
	)
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return d.lock.Close()
}

// Watcher exposes the underlying follower.
func (d *Daemon) Watcher() *watcher.Watcher {
	return d.watcher
}

// APIAddr returns the bound API address, or "" when the API is not listening.
func (d *Daemon) APIAddr() string {
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		State:        d.watcher.State(),
		PID:          os.Getpid(),
		Path:         d.watcher.Path(),
		Encoding:     d.watcher.Encoding().String(),
		Offset:       d.watcher.Offset(),
		Subscribers:  d.watcher.Subscribers(),
		LockFilePath: d.lockPath,
	}
}
