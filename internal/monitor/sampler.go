package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sampler refreshes a Snapshot in the background so HTTP handlers can serve
// host state without blocking on collection.
type Sampler struct {
	monitors []Monitor
	state    *Snapshot
	interval time.Duration
	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

func NewSampler(monitors []Monitor, interval time.Duration, logger *slog.Logger) *Sampler {
	return &Sampler{
		monitors: monitors,
		state:    &Snapshot{Storage: make(StorageState)},
		interval: interval,
		done:     make(chan struct{}),
		logger:   logger,
	}
}

func (s *Sampler) Start(ctx context.Context) {
	// Initial collection
	s.refresh()

	go s.runLoop(ctx)

	s.logger.Info("host sampler started", "interval", s.interval, "monitors", len(s.monitors))
}

func (s *Sampler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.logger.Info("host sampler stopped")
	})
}

// Snapshot returns a copy of the latest collected state.
func (s *Sampler) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Sampler) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

func (s *Sampler) refresh() {
	snap := Collect(s.monitors, s.logger)

	s.mu.Lock()
	s.state = snap
	s.mu.Unlock()
}
