package rules

import "github.com/MRamiBalles/PocketPet/internal/domain/pet"

// Mood is the pet's displayed feeling.
type Mood string

const (
	MoodHungry   Mood = "hungry"
	MoodSleepy   Mood = "sleepy"
	MoodSad      Mood = "sad"
	MoodHappy    Mood = "happy"
	MoodSleeping Mood = "sleeping"
)

// Mood thresholds.
const (
	StarvingHunger = 70 // hungry above this
	TiredEnergy    = 30 // sleepy below this
	GloomyHappy    = 30 // sad below this
)

// ResolveMood picks the first matching mood in priority order
// hungry > sleepy > sad > happy. Sleeping overrides all of them.
func ResolveMood(s pet.State) Mood {
	if s.Sleeping {
		return MoodSleeping
	}
	switch {
	case s.Hunger > StarvingHunger:
		return MoodHungry
	case s.Energy < TiredEnergy:
		return MoodSleepy
	case s.Happiness < GloomyHappy:
		return MoodSad
	default:
		return MoodHappy
	}
}

var phrases = map[Mood]string{
	MoodHungry: "I'm hungry…",
	MoodSleepy: "I'm sleepy…",
	MoodSad:    "I'm sad…",
	MoodHappy:  "I'm happy!",
}

// Status texts that are not mood phrases.
const (
	StatusNoPet    = "Choose a pet to begin"
	StatusSleeping = "Zzz… sleeping"
)

// MoodPhrase is the status line for a record: the mood annotated with the
// stage, the sleeping indicator, or the adoption hint.
func MoodPhrase(s pet.State) string {
	if !s.HasPet() {
		return StatusNoPet
	}
	mood := ResolveMood(s)
	if mood == MoodSleeping {
		return StatusSleeping
	}
	return phrases[mood] + " (" + string(s.Stage) + ")"
}
