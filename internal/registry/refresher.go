package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher periodically reloads the registry so the console's only defense
// against staleness does not depend on mutations alone.
type Refresher struct {
	registry *Registry
	logger   *slog.Logger
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher creates a refresher for reg. A zero interval defaults to 60s.
func NewRefresher(reg *Registry, logger *slog.Logger, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		registry: reg,
		logger:   logger.With("component", "refresher"),
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the refresh loop.
func (f *Refresher) Start() {
	f.wg.Add(1)
	go f.run()
	f.logger.Info("refresher started", "interval", f.interval)
}

// Stop stops the refresh loop and waits for it to exit.
func (f *Refresher) Stop() {
	f.cancel()
	f.wg.Wait()
	f.logger.Info("refresher stopped")
}

func (f *Refresher) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return
		case <-ticker.C:
			if err := f.registry.LoadAll(f.ctx); err != nil {
				f.logger.Error("refresh failed", "error", err)
			}
		}
	}
}
