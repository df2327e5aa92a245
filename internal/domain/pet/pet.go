// Package pet defines the core domain entity for the adopted pet.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package pet

// Stage is the pet's life phase.
type Stage string

const (
	StageBaby  Stage = "baby"
	StageTeen  Stage = "teen"
	StageAdult Stage = "adult"
)

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	switch s {
	case StageBaby, StageTeen, StageAdult:
		return true
	}
	return false
}

// Stat bounds shared by hunger, happiness and energy.
const (
	MinStat = 0
	MaxStat = 100
)

// Starting values for a fresh record.
const (
	DefaultHunger    = 30
	DefaultHappiness = 70
	DefaultEnergy    = 70
)

// FallbackName is used when the owner leaves the name blank.
const FallbackName = "Buddy"

// State represents the single pet record. Field tags match the stored record layout.
type State struct {
	Species Species `json:"pet"`  // Empty until adoption
	Name    string  `json:"name"` // Set once, at adoption

	// Vitals
	Hunger    float64 `json:"hunger"`    // 0-100 (100 = starving)
	Happiness float64 `json:"happiness"` // 0-100
	Energy    float64 `json:"energy"`    // 0-100 (0 = exhausted)

	Sleeping bool    `json:"sleeping"`
	Age      float64 `json:"age"`   // Grows 0.2 per tick
	Stage    Stage   `json:"stage"` // Re-derived on tick
}

// NewState returns a record with the starting defaults and no pet adopted.
func NewState() State {
	return State{
		Hunger:    DefaultHunger,
		Happiness: DefaultHappiness,
		Energy:    DefaultEnergy,
		Sleeping:  false,
		Age:       0,
		Stage:     StageBaby,
	}
}

// HasPet reports whether a species has been adopted.
func (s State) HasPet() bool {
	return s.Species != ""
}

// Clamp forces the bounded vitals back into [MinStat, MaxStat].
func (s *State) Clamp() {
	s.Hunger = ClampStat(s.Hunger)
	s.Happiness = ClampStat(s.Happiness)
	s.Energy = ClampStat(s.Energy)
}

// ClampStat bounds a single vital.
func ClampStat(v float64) float64 {
	if v < MinStat {
		return MinStat
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}
