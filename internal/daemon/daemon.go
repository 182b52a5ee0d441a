package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"rokuserve/internal/config"
	"rokuserve/internal/feed"
	"rokuserve/internal/logging"
	"rokuserve/internal/server"
)

// Daemon runs the HTTP server and the periodic feed rebuild, enforcing
// single-instance execution via a lock file.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	builder *feed.Builder
	srv     *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, builder *feed.Builder, srv *server.Server, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || builder == nil || srv == nil {
		return nil, errors.New("daemon requires config, builder, and server")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "rokuserved.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		builder:  builder,
		srv:      srv,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, starts the HTTP server, and begins the
// rebuild schedule. The first feed build runs immediately; its failure is
// logged but does not prevent startup, because a previously published feed
// may still be servable.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another rokuserved instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.srv.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start http server: %w", err)
	}

	d.cancel = cancel
	d.done = make(chan struct{})
	d.running.Store(true)

	go d.rebuildLoop(runCtx)

	d.logger.Info("rokuserved started", logging.String("lock", d.lockPath))
	return nil
}

func (d *Daemon) rebuildLoop(ctx context.Context) {
	defer close(d.done)

	if _, err := d.builder.Publish(ctx); err != nil {
		d.logger.Error("initial feed build failed, serving previous document if present", logging.Error(err))
	}

	interval := time.Duration(d.cfg.Feed.RebuildInterval) * time.Second
	if interval <= 0 {
		d.logger.Info("periodic rebuilds disabled")
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.builder.Publish(ctx); err != nil {
				d.logger.Error("scheduled feed build failed", logging.Error(err))
			}
		}
	}
}

// Stop halts the rebuild loop, shuts the server down, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	<-d.done
	d.srv.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("rokuserved stopped")
}
