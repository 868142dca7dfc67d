package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler drives the engine: one immediate cycle on Start, then one per
// interval until Stop or context cancellation.
type Scheduler struct {
	engine   *Engine
	interval time.Duration
	logger   *slog.Logger

	refresh   chan struct{}
	stop      chan struct{}
	done      chan struct{}
	started   atomic.Bool
	stopOnce  sync.Once
	startOnce sync.Once
}

// NewScheduler creates a scheduler for the given engine and period.
func NewScheduler(e *Engine, interval time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		engine:   e,
		interval: interval,
		logger:   logger,
		refresh:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the scheduling loop. Calling Start more than once is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run(ctx)
	})
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	s.engine.RunCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "reason", "context cancelled")
			return
		case <-s.stop:
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.engine.RunCycle(ctx)
		case <-s.refresh:
			// Out-of-band cycle; the ticker keeps its phase, so a manual
			// refresh neither delays nor accelerates the next scheduled one.
			s.engine.RunCycle(ctx)
		}
	}
}

// RefreshNow requests an out-of-band cycle. Fire-and-forget: completion is
// observed through the inbox subscription. Requests arriving while a refresh
// is already pending coalesce into one.
func (s *Scheduler) RefreshNow() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Stop cancels future cycles and waits for the loop to exit. Idempotent;
// safe to call even if Start was never called.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.started.Load() {
		<-s.done
	}
}
