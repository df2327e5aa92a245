package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/domain/rules"
	"github.com/MRamiBalles/PocketPet/internal/infra/storage"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
	"github.com/MRamiBalles/PocketPet/internal/platform/metrics"
)

// ErrUnknownSpecies is returned when adopting a species outside the fixed set.
var ErrUnknownSpecies = errors.New("unknown species")

// Store holds the live pet record and writes it through to a StateStore after
// every real change. It is not safe for concurrent use; Engine serialises it.
type Store struct {
	state   pet.State
	backend storage.StateStore
	logger  *logger.Logger
	metrics *metrics.Collector
}

// NewStore hydrates the record from backend. Absent or unreadable records
// start from the defaults.
func NewStore(ctx context.Context, backend storage.StateStore, log *logger.Logger) *Store {
	s := &Store{
		state:   pet.NewState(),
		backend: backend,
		logger:  log,
		metrics: metrics.Get(),
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	loaded, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Warn("Stored pet record unreadable, starting fresh: " + err.Error())
		return
	}
	if loaded == nil {
		return
	}
	s.state = normalize(*loaded)
}

// normalize repairs a loaded record so the invariants hold before any action.
func normalize(st pet.State) pet.State {
	st.Clamp()
	if st.Age < 0 {
		st.Age = 0
	}
	if st.HasPet() && st.Name == "" {
		st.Name = pet.FallbackName
	}
	if !st.Stage.Valid() {
		st.Stage = rules.DeriveStage(st.Age, st.Happiness, st.Hunger)
	}
	return st
}

// State returns a copy of the live record.
func (s *Store) State() pet.State {
	return s.state
}

// Adopt sets species and name once. It reports whether anything changed.
func (s *Store) Adopt(ctx context.Context, species pet.Species, desiredName string) (bool, error) {
	if s.state.HasPet() {
		return false, nil
	}
	if !species.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownSpecies, species)
	}
	s.state = rules.Adopt(s.state, species, desiredName)
	return true, s.persist(ctx)
}

// Feed lowers hunger and raises happiness.
func (s *Store) Feed(ctx context.Context) (bool, error) {
	return s.apply(ctx, rules.Feed)
}

// Interact wakes a sleeping pet or cheers up an awake one.
func (s *Store) Interact(ctx context.Context) (bool, error) {
	return s.apply(ctx, rules.Interact)
}

// Rest puts the pet to sleep.
func (s *Store) Rest(ctx context.Context) (bool, error) {
	return s.apply(ctx, rules.Rest)
}

// Tick runs one decay step.
func (s *Store) Tick(ctx context.Context) (bool, error) {
	return s.apply(ctx, rules.Decay)
}

// Reset discards the persisted record and starts over from the defaults.
// The in-memory record is reset even when clearing the backend fails.
func (s *Store) Reset(ctx context.Context) error {
	start := time.Now()
	err := s.backend.Clear(ctx)
	s.metrics.RecordPersist(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("clear pet record: %w", err)
	}
	s.state = pet.NewState()
	return nil
}

// apply runs a guarded transition. Without a pet nothing happens and nothing
// is written.
func (s *Store) apply(ctx context.Context, fn func(pet.State) pet.State) (bool, error) {
	if !s.state.HasPet() {
		return false, nil
	}
	s.state = fn(s.state)
	return true, s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	start := time.Now()
	err := s.backend.Save(ctx, s.state)
	s.metrics.RecordPersist(time.Since(start), err)
	if err != nil {
		return fmt.Errorf("persist pet record: %w", err)
	}
	return nil
}
