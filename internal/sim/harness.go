// Package sim runs deterministic care scenarios against a real engine.
// Time only advances when a scenario fires the manual scheduler, so the
// outcome of every scenario is exact.
package sim

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/domain/rules"
	"github.com/MRamiBalles/PocketPet/internal/engine"
	"github.com/MRamiBalles/PocketPet/internal/events"
	"github.com/MRamiBalles/PocketPet/internal/infra/storage"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/platform/metrics"
)

// Harness is one isolated pet world.
type Harness struct {
	Engine    *engine.Engine
	Backend   *storage.MemoryStateStore
	Scheduler *engine.ManualScheduler
	Log       *events.EventLog
	Metrics   *metrics.Collector

	logger *logger.Logger
	ctx    context.Context
}

// NewHarness builds an engine over a fresh in-memory store.
func NewHarness(ctx context.Context, log *logger.Logger) *Harness {
	return newHarness(ctx, log, storage.NewMemoryStateStore())
}

func newHarness(ctx context.Context, log *logger.Logger, backend *storage.MemoryStateStore) *Harness {
	h := &Harness{
		Backend:   backend,
		Scheduler: engine.NewManualScheduler(),
		Log:       events.NewEventLog(nil),
		Metrics:   metrics.NewCollector(),
		logger:    log,
		ctx:       ctx,
	}
	store := engine.NewStore(ctx, backend, log)
	h.Engine = engine.NewEngine(store, h.Log, log,
		engine.WithScheduler(h.Scheduler),
		engine.WithMetrics(h.Metrics),
		engine.WithConfirmer(engine.ConfirmFunc(func(string) bool { return true })),
	)
	h.Engine.Start(ctx)
	return h
}

// Restart simulates a process restart over the same backend.
func (h *Harness) Restart() *Harness {
	return newHarness(h.ctx, h.logger, h.Backend)
}

// Adopt adopts or fails the scenario.
func (h *Harness) Adopt(species pet.Species, name string) error {
	_, err := h.Engine.Adopt(h.ctx, species, name)
	return err
}

// Ticks fires the clock n times.
func (h *Harness) Ticks(n int) {
	h.Scheduler.Fire(n)
}

// State is the live record.
func (h *Harness) State() pet.State {
	return h.Engine.State()
}

// Evolutions returns the EVOLVED payloads in order.
func (h *Harness) Evolutions() []engine.EvolvedPayload {
	var out []engine.EvolvedPayload
	for _, e := range h.Log.GetByType(events.EventTypeEvolved) {
		if p, ok := e.Payload.(engine.EvolvedPayload); ok {
			out = append(out, p)
		}
	}
	return out
}

// Scenario is one care story with its expected outcome.
type Scenario struct {
	Name        string
	Description string
	Run         func(h *Harness) error
}

// Result captures the outcome of each scenario.
type Result struct {
	ScenarioName string
	Passed       bool
	Reason       string
	Ticks        int64
	Final        pet.State
}

// Runner executes scenarios and keeps their results.
type Runner struct {
	logger  *logger.Logger
	out     io.Writer
	results []Result
}

// NewRunner prints progress to out.
func NewRunner(log *logger.Logger, out io.Writer) *Runner {
	return &Runner{logger: log, out: out}
}

// Run executes every scenario in a fresh harness.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) []Result {
	for _, sc := range scenarios {
		fmt.Fprintln(r.out, "\n"+strings.Repeat("=", 60))
		fmt.Fprintf(r.out, "🧪 SCENARIO: %s\n", sc.Name)
		if sc.Description != "" {
			fmt.Fprintf(r.out, "   %s\n", sc.Description)
		}

		h := NewHarness(ctx, r.logger)
		err := sc.Run(h)
		st := h.State()
		res := Result{
			ScenarioName: sc.Name,
			Passed:       err == nil,
			Ticks:        h.Engine.Ticks(),
			Final:        st,
		}
		if err != nil {
			res.Reason = err.Error()
			fmt.Fprintf(r.out, "❌ FAILED: %s\n", res.Reason)
		} else {
			res.Reason = "ok"
			fmt.Fprintf(r.out, "✅ PASSED after %d ticks: %s\n", res.Ticks, describe(st))
		}
		r.results = append(r.results, res)
	}
	return r.results
}

// GetResults returns all results so far.
func (r *Runner) GetResults() []Result {
	return r.results
}

func describe(st pet.State) string {
	if !st.HasPet() {
		return rules.StatusNoPet
	}
	return fmt.Sprintf("%s the %s, %s, hunger=%.0f happiness=%.0f energy=%.0f age=%.1f",
		st.Name, st.Species, rules.MoodPhrase(st), st.Hunger, st.Happiness, st.Energy, st.Age)
}
