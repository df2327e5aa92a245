package engine

import (
	"context"
	"testing"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/infra/storage"
	"github.com/MRamiBalles/PocketPet/internal/platform/logger"
)

func TestNewStoreFallsBackOnMalformedRecord(t *testing.T) {
	backend := storage.NewMemoryStateStore()
	backend.SetRaw([]byte("{broken"))

	s := NewStore(context.Background(), backend, logger.Discard())
	if s.State() != pet.NewState() {
		t.Errorf("Expected defaults, got %+v", s.State())
	}
}

func TestNewStoreNormalizesRecord(t *testing.T) {
	backend := storage.NewMemoryStateStore()
	backend.SetRaw([]byte(`{"pet":"bunny","name":"","hunger":150,"happiness":-4,"energy":50,"age":6,"stage":"giant"}`))

	st := NewStore(context.Background(), backend, logger.Discard()).State()
	if st.Hunger != 100 || st.Happiness != 0 {
		t.Errorf("Expected clamped vitals, got %+v", st)
	}
	if st.Name != pet.FallbackName {
		t.Errorf("Expected fallback name, got %q", st.Name)
	}
	if st.Stage != pet.StageBaby {
		t.Errorf("Expected invalid stage re-derived to baby, got %q", st.Stage)
	}
}

func TestStoreKeepsStoredStage(t *testing.T) {
	backend := storage.NewMemoryStateStore()
	backend.SetRaw([]byte(`{"pet":"fox","name":"Kit","hunger":30,"happiness":70,"energy":70,"age":0,"stage":"adult"}`))

	st := NewStore(context.Background(), backend, logger.Discard()).State()
	if st.Stage != pet.StageAdult {
		t.Errorf("Expected stored stage kept until the next tick, got %q", st.Stage)
	}
}

func TestStoreResetThenLoadYieldsDefaults(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStateStore()
	s := NewStore(ctx, backend, logger.Discard())
	if _, err := s.Adopt(ctx, pet.SpeciesCat, "Mochi"); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	reloaded := NewStore(ctx, backend, logger.Discard())
	if reloaded.State() != pet.NewState() {
		t.Errorf("Expected defaults after reset, got %+v", reloaded.State())
	}
}
