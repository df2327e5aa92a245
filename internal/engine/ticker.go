package engine

import (
	"context"
	"sync"
	"time"

	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
)

// DefaultTickPeriod is the real-time spacing of decay ticks.
const DefaultTickPeriod = 12 * time.Second

// Scheduler runs fn every period until ctx is cancelled. Every must not
// block; implementations start their own loop.
type Scheduler interface {
	Every(ctx context.Context, period time.Duration, fn func())
}

// RealScheduler drives callbacks from a time.Ticker.
type RealScheduler struct{}

// Every implements Scheduler.
func (RealScheduler) Every(ctx context.Context, period time.Duration, fn func()) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

// ManualScheduler only fires when told to. Tests and the simulator use it to
// advance time deterministically.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []manualTask
}

type manualTask struct {
	ctx context.Context
	fn  func()
}

// NewManualScheduler returns a scheduler with nothing registered.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every implements Scheduler. The period is ignored.
func (m *ManualScheduler) Every(ctx context.Context, period time.Duration, fn func()) {
	m.mu.Lock()
	m.tasks = append(m.tasks, manualTask{ctx: ctx, fn: fn})
	m.mu.Unlock()
}

// Fire runs every live callback n times, in registration order.
func (m *ManualScheduler) Fire(n int) {
	m.mu.Lock()
	tasks := append([]manualTask(nil), m.tasks...)
	m.mu.Unlock()

	for i := 0; i < n; i++ {
		for _, t := range tasks {
			if t.ctx.Err() != nil {
				continue
			}
			t.fn()
		}
	}
}

// Ticker manages the decay heartbeat.
// It does NOT know about the pet - only that time passes.
type Ticker struct {
	scheduler Scheduler
	period    time.Duration
	logger    *logger.Logger
	onTick    func(ctx context.Context)
}

// NewTicker creates a ticker calling onTick every period.
func NewTicker(s Scheduler, period time.Duration, log *logger.Logger, onTick func(ctx context.Context)) *Ticker {
	if s == nil {
		s = RealScheduler{}
	}
	if period <= 0 {
		period = DefaultTickPeriod
	}
	return &Ticker{scheduler: s, period: period, logger: log, onTick: onTick}
}

// Start registers the loop. It returns immediately; ctx cancellation stops it.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Engine Ticker started, period " + t.period.String())
	t.scheduler.Every(ctx, t.period, func() { t.onTick(ctx) })
	go func() {
		<-ctx.Done()
		t.logger.Info("Engine Ticker stopped by context.")
	}()
}

// Period returns the tick spacing.
func (t *Ticker) Period() time.Duration {
	return t.period
}
