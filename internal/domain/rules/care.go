package rules

import (
	"math"
	"strings"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
)

// Care action effects.
const (
	FeedHungerDrop    = 20
	FeedHappinessGain = 10
	PetHappinessGain  = 15
)

// Adopt sets species and name on a record that has none.
// A record that already has a pet is returned unchanged.
func Adopt(s pet.State, species pet.Species, desiredName string) pet.State {
	if s.HasPet() {
		return s
	}
	s.Species = species
	s.Name = NormalizeName(desiredName)
	return s
}

// NormalizeName trims the requested name, falling back to pet.FallbackName.
func NormalizeName(desired string) string {
	name := strings.TrimSpace(desired)
	if name == "" {
		return pet.FallbackName
	}
	return name
}

// Feed lowers hunger and cheers the pet up.
func Feed(s pet.State) pet.State {
	if !s.HasPet() {
		return s
	}
	s.Hunger -= FeedHungerDrop
	s.Happiness += FeedHappinessGain
	s.Clamp()
	return s
}

// Interact is the "pet" action. It is the only way to wake a sleeping pet,
// and waking it gives no happiness.
func Interact(s pet.State) pet.State {
	if !s.HasPet() {
		return s
	}
	if s.Sleeping {
		s.Sleeping = false
	} else {
		s.Happiness += PetHappinessGain
	}
	s.Clamp()
	return s
}

// Rest puts the pet to sleep. Idempotent.
func Rest(s pet.State) pet.State {
	if !s.HasPet() {
		return s
	}
	s.Sleeping = true
	return s
}

// Decay rates applied once per tick.
const (
	TickHunger          = 5
	HungryThreshold     = 60 // happiness starts dropping above this
	HungryHappinessLoss = 5
	TickEnergy          = 5
	SleepEnergyGain     = 8
	SleepHunger         = 2
	AwakeEnergyLoss     = 5
	AwakeHunger         = 5
	AgeStep             = 0.2
)

// Decay runs one tick: needs decay, the pet ages, vitals are clamped and the
// stage is re-derived from the clamped values.
//
// Net per tick: awake hunger +10 / energy -10, asleep hunger +7 / energy +3.
func Decay(s pet.State) pet.State {
	if !s.HasPet() {
		return s
	}

	s.Hunger += TickHunger
	s.Energy -= TickEnergy
	if s.Hunger > HungryThreshold {
		s.Happiness -= HungryHappinessLoss
	}

	if s.Sleeping {
		s.Energy += SleepEnergyGain
		s.Hunger += SleepHunger
	} else {
		s.Energy -= AwakeEnergyLoss
		s.Hunger += AwakeHunger
	}

	s.Age = advanceAge(s.Age)
	s.Clamp()
	s.Stage = DeriveStage(s.Age, s.Happiness, s.Hunger)
	return s
}

// advanceAge adds one AgeStep, rounding away float drift so that 25 ticks
// land on exactly 5.
func advanceAge(age float64) float64 {
	if age < 0 {
		age = 0
	}
	return math.Round((age+AgeStep)*1e6) / 1e6
}
