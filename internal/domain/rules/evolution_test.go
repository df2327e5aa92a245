package rules

import (
	"testing"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
)

func TestDeriveStageThresholds(t *testing.T) {
	cases := []struct {
		name                   string
		age, happiness, hunger float64
		want                   pet.Stage
	}{
		{"adult at exact bounds", 5, 60, 59, pet.StageAdult},
		{"teen when happiness one short", 5, 59, 59, pet.StageTeen},
		{"teen when hunger at 60", 5, 80, 60, pet.StageTeen},
		{"teen when age under five", 4.8, 90, 10, pet.StageTeen},
		{"teen at exact bounds", 2, 40, 99, pet.StageTeen},
		{"baby when happiness 39", 2, 39, 0, pet.StageBaby},
		{"baby when young", 1.8, 100, 0, pet.StageBaby},
		{"fresh pet", 0, 70, 30, pet.StageBaby},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStage(tc.age, tc.happiness, tc.hunger); got != tc.want {
				t.Errorf("DeriveStage(%v, %v, %v) = %s, want %s", tc.age, tc.happiness, tc.hunger, got, tc.want)
			}
		})
	}
}

func TestStageRegresses(t *testing.T) {
	s := adopted()
	s.Age = 6
	s.Happiness = 90
	s.Hunger = 0
	s = Decay(s)
	if s.Stage != pet.StageAdult {
		t.Fatalf("Expected adult, got %s", s.Stage)
	}

	s.Happiness = 10
	s = Decay(s)
	if s.Stage != pet.StageBaby {
		t.Errorf("Expected unhappy adult to re-derive to baby, got %s", s.Stage)
	}
}

func TestStageOnlyChangesOnTick(t *testing.T) {
	s := adopted()
	s.Age = 6
	s = Feed(s)
	s = Interact(s)
	if s.Stage != pet.StageBaby {
		t.Errorf("Expected care actions to leave stage alone, got %s", s.Stage)
	}
}
