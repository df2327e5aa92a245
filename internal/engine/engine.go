package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/events"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/platform/metrics"
	"github.com/MRamiBalles/PocketPet/internal/render"
)

// ResetPrompt is the question asked before a pet is discarded.
const ResetPrompt = "Are you sure? Your pet will be gone forever 🥺"

// Renderer draws a frame. Called with the engine lock held; must not call
// back into the engine.
type Renderer interface {
	Render(f render.Frame)
}

// CuePlayer plays an action cue. Fire-and-forget.
type CuePlayer interface {
	Play(c render.Cue)
}

// Confirmer asks the owner a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Payloads attached to journal events.
type (
	AdoptedPayload struct {
		Species pet.Species `json:"species"`
		Name    string      `json:"name"`
	}

	VitalsPayload struct {
		Hunger    float64   `json:"hunger"`
		Happiness float64   `json:"happiness"`
		Energy    float64   `json:"energy"`
		Sleeping  bool      `json:"sleeping"`
		Age       float64   `json:"age"`
		Stage     pet.Stage `json:"stage"`
	}

	EvolvedPayload struct {
		From pet.Stage `json:"from"`
		To   pet.Stage `json:"to"`
	}
)

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer adds a renderer. Several may be attached.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderers = append(e.renderers, r) }
}

// WithCuePlayer sets the cue output.
func WithCuePlayer(p CuePlayer) Option {
	return func(e *Engine) { e.cues = p }
}

// WithConfirmer sets the default reset confirmation.
func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) { e.confirmer = c }
}

// WithScheduler replaces the real-time scheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.scheduler = s }
}

// WithTickPeriod sets the decay period.
func WithTickPeriod(d time.Duration) Option {
	return func(e *Engine) { e.period = d }
}

// WithMetrics replaces the global collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = c
		e.store.metrics = c
	}
}

// Engine is the central orchestrator: every action and tick goes
// event -> mutate -> clamp -> derive -> persist -> journal -> render.
type Engine struct {
	mu sync.Mutex

	store    *Store
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
	tracer   trace.Tracer

	scheduler Scheduler
	period    time.Duration
	ticker    *Ticker

	renderers []Renderer
	cues      CuePlayer
	confirmer Confirmer

	// State
	lastRenderedStage pet.Stage
	ticks             int64
}

// NewEngine wires the store to the journal and outputs.
func NewEngine(store *Store, eventLog *events.EventLog, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:             store,
		eventLog:          eventLog,
		logger:            log,
		metrics:           metrics.Get(),
		tracer:            otel.Tracer("github.com/MRamiBalles/PocketPet/internal/engine"),
		period:            DefaultTickPeriod,
		lastRenderedStage: store.State().Stage,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ticker = NewTicker(e.scheduler, e.period, log, e.onTick)
	return e
}

// Start draws the initial frame and starts the decay clock.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting pet engine...")

	e.mu.Lock()
	e.render(nil)
	e.mu.Unlock()

	e.ticker.Start(ctx)
}

// OverrideTicks lets bootstrapping code resume the clock count.
func (e *Engine) OverrideTicks(n int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticks = n
}

// AddRenderer attaches a renderer after construction.
func (e *Engine) AddRenderer(r Renderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderers = append(e.renderers, r)
}

// State returns a copy of the pet record.
func (e *Engine) State() pet.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.State()
}

// View builds the current view without consuming the evolution edge.
func (e *Engine) View() render.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return render.Build(e.store.State(), e.lastRenderedStage)
}

// Ticks returns how many clock ticks have elapsed.
func (e *Engine) Ticks() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// GetEventLog exposes the journal for history endpoints.
func (e *Engine) GetEventLog() *events.EventLog {
	return e.eventLog
}

// Adopt chooses the species and name. A second adoption is a no-op.
func (e *Engine) Adopt(ctx context.Context, species pet.Species, name string) (render.View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := e.startSpan(ctx, "pet.adopt")
	defer span.End()
	span.SetAttributes(attribute.String("pet.requested_species", string(species)))

	changed, err := e.store.Adopt(ctx, species, name)
	if !changed {
		return e.build(), err
	}
	st := e.store.State()
	e.metrics.RecordAction("adopt")
	e.journal(events.EventTypeAdopted, events.ActorOwner, st.Name, AdoptedPayload{Species: st.Species, Name: st.Name})
	e.logger.Event(string(events.EventTypeAdopted), events.ActorOwner, fmt.Sprintf("%s the %s", st.Name, st.Species))
	return e.render(nil), e.persistErr(err)
}

// Feed feeds the pet.
func (e *Engine) Feed(ctx context.Context) (render.View, error) {
	return e.act(ctx, "feed", always(events.EventTypeFed), &render.CueFeed, e.store.Feed)
}

// Pet pets the pet, waking it if asleep.
func (e *Engine) Pet(ctx context.Context) (render.View, error) {
	eventFor := func(before pet.State) events.EventType {
		if before.Sleeping {
			return events.EventTypeWoke
		}
		return events.EventTypePetted
	}
	return e.act(ctx, "pet", eventFor, &render.CuePet, e.store.Interact)
}

// Sleep puts the pet to sleep.
func (e *Engine) Sleep(ctx context.Context) (render.View, error) {
	return e.act(ctx, "sleep", always(events.EventTypeSlept), &render.CueSleep, e.store.Rest)
}

// Tick advances the clock by one step immediately.
func (e *Engine) Tick(ctx context.Context) (render.View, error) {
	start := time.Now()
	defer func() { e.metrics.RecordTick(time.Since(start)) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := e.startSpan(ctx, "pet.tick")
	defer span.End()

	e.ticks++
	span.SetAttributes(attribute.Int64("pet.tick", e.ticks))

	changed, err := e.store.Tick(ctx)
	if !changed {
		return e.build(), nil
	}
	st := e.store.State()
	e.journal(events.EventTypeTimeTick, events.ActorSystem, st.Name, vitals(st))
	e.logger.Event(string(events.EventTypeTimeTick), events.ActorSystem,
		fmt.Sprintf("Tick %d hunger=%.0f happiness=%.0f energy=%.0f age=%.1f", e.ticks, st.Hunger, st.Happiness, st.Energy, st.Age))
	return e.render(nil), e.persistErr(err)
}

// Reset discards the pet after confirmation. With no pet it does nothing,
// not even the cue. A nil confirmer falls back to the engine's; with
// neither, the reset is declined. It reports whether the pet was discarded.
func (e *Engine) Reset(ctx context.Context, c Confirmer) (render.View, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.store.State().HasPet() {
		return e.build(), false, nil
	}

	ctx, span := e.startSpan(ctx, "pet.reset")
	defer span.End()

	e.play(render.CueReset)

	if c == nil {
		c = e.confirmer
	}
	if c == nil || !c.Confirm(ResetPrompt) {
		span.SetAttributes(attribute.Bool("pet.reset_confirmed", false))
		e.logger.Info("Reset declined")
		return e.build(), false, nil
	}
	span.SetAttributes(attribute.Bool("pet.reset_confirmed", true))

	name := e.store.State().Name
	if err := e.store.Reset(ctx); err != nil {
		return e.build(), false, e.persistErr(err)
	}
	e.lastRenderedStage = e.store.State().Stage
	e.metrics.RecordAction("reset")
	e.journal(events.EventTypeReset, events.ActorOwner, name, nil)
	e.logger.Event(string(events.EventTypeReset), events.ActorOwner, name+" is gone")
	return e.render(&render.CueReset), true, nil
}

// act runs one owner action under the lock.
func (e *Engine) act(ctx context.Context, kind string, eventFor func(pet.State) events.EventType, cue *render.Cue, fn func(context.Context) (bool, error)) (render.View, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, span := e.startSpan(ctx, "pet."+kind)
	defer span.End()

	before := e.store.State()
	if !before.HasPet() {
		return e.build(), nil
	}
	e.play(*cue)

	changed, err := fn(ctx)
	if !changed {
		return e.build(), err
	}
	st := e.store.State()
	evt := eventFor(before)
	e.metrics.RecordAction(kind)
	e.journal(evt, events.ActorOwner, st.Name, vitals(st))
	e.logger.Event(string(evt), events.ActorOwner, st.Name)
	return e.render(cue), e.persistErr(err)
}

func (e *Engine) onTick(ctx context.Context) {
	if _, err := e.Tick(ctx); err != nil {
		e.logger.Error("Tick failed: " + err.Error())
	}
}

// render builds the frame, handles the evolution edge and fans it out.
// Caller holds e.mu.
func (e *Engine) render(cue *render.Cue) render.View {
	st := e.store.State()
	v := render.Build(st, e.lastRenderedStage)
	if v.Evolving {
		from := e.lastRenderedStage
		e.metrics.RecordEvolution()
		e.journal(events.EventTypeEvolved, events.ActorSystem, st.Name, EvolvedPayload{From: from, To: st.Stage})
		e.logger.Event(string(events.EventTypeEvolved), events.ActorSystem,
			fmt.Sprintf("%s: %s -> %s", st.Name, from, st.Stage))
	}
	e.lastRenderedStage = st.Stage

	frame := render.Frame{View: v, Cue: cue}
	for _, r := range e.renderers {
		r.Render(frame)
	}
	return v
}

// build returns the current view without rendering. Caller holds e.mu.
func (e *Engine) build() render.View {
	return render.Build(e.store.State(), e.lastRenderedStage)
}

func (e *Engine) play(c render.Cue) {
	if e.cues != nil {
		e.cues.Play(c)
	}
}

// journal appends to the event log. Persistence failures are logged only.
func (e *Engine) journal(t events.EventType, actor, petName string, payload interface{}) {
	err := e.eventLog.Append(events.PetEvent{
		Type:    t,
		ActorID: actor,
		PetName: petName,
		Payload: payload,
		Tick:    e.ticks,
	})
	if err != nil {
		e.logger.Warn("Failed to persist event " + string(t) + ": " + err.Error())
	}
}

// persistErr logs a storage failure and hands it back to the caller; the
// in-memory record stays authoritative.
func (e *Engine) persistErr(err error) error {
	if err != nil {
		e.logger.Error(err.Error())
	}
	return err
}

func (e *Engine) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	st := e.store.State()
	return e.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("pet.species", string(st.Species)),
		attribute.String("pet.stage", string(st.Stage)),
	))
}

func always(t events.EventType) func(pet.State) events.EventType {
	return func(pet.State) events.EventType { return t }
}

func vitals(st pet.State) VitalsPayload {
	return VitalsPayload{
		Hunger:    st.Hunger,
		Happiness: st.Happiness,
		Energy:    st.Energy,
		Sleeping:  st.Sleeping,
		Age:       st.Age,
		Stage:     st.Stage,
	}
}
