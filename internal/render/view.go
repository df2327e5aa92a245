// Package render turns a pet record into the view model shown to the owner.
// Nothing here mutates state; the engine builds a View after every change.
package render

import (
	"math"
	"time"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/domain/rules"
)

// EvolveAnimation is how long the evolving effect stays on screen.
const EvolveAnimation = 600 * time.Millisecond

// Attention thresholds for the action buttons.
const (
	FeedAttentionHunger  = 65 // feed button pulses above this
	SleepAttentionEnergy = 35 // sleep button pulses below this
)

// Bar is a 0-100 width for one vital.
type Bar struct {
	Label string `json:"label"`
	Width int    `json:"width"`
}

// View is everything a renderer needs to draw the pet.
type View struct {
	Adopted bool        `json:"adopted"`
	Species pet.Species `json:"species,omitempty"`
	Name    string      `json:"name"`
	Glyph   string      `json:"glyph"`
	Stage   pet.Stage   `json:"stage"`

	Hunger    Bar     `json:"hunger"`
	Happiness Bar     `json:"happiness"`
	Energy    Bar     `json:"energy"`
	Age       float64 `json:"age"`

	Mood     rules.Mood `json:"mood,omitempty"`
	Status   string     `json:"status"`
	Sleeping bool       `json:"sleeping"`

	Evolving          bool  `json:"evolving"`
	EvolveAnimationMS int64 `json:"evolve_animation_ms"`

	FeedAttention  bool `json:"feed_attention"`
	SleepAttention bool `json:"sleep_attention"`

	ShowAdoption bool         `json:"show_adoption"`
	Options      []pet.Option `json:"options,omitempty"`
}

// Build derives the view for s. lastStage is the stage the previous render
// showed; a difference marks the view as evolving.
func Build(s pet.State, lastStage pet.Stage) View {
	v := View{
		Adopted:   s.HasPet(),
		Species:   s.Species,
		Name:      s.Name,
		Glyph:     pet.Face(s.Species, s.Stage),
		Stage:     s.Stage,
		Hunger:    bar("Hunger", s.Hunger),
		Happiness: bar("Happiness", s.Happiness),
		Energy:    bar("Energy", s.Energy),
		Age:       s.Age,
		Status:    rules.MoodPhrase(s),
		Sleeping:  s.Sleeping,
	}

	if !v.Adopted {
		v.ShowAdoption = true
		v.Options = pet.Options()
		return v
	}

	v.Mood = rules.ResolveMood(s)
	v.FeedAttention = s.Hunger > FeedAttentionHunger
	v.SleepAttention = s.Energy < SleepAttentionEnergy
	if lastStage != "" && s.Stage != lastStage {
		v.Evolving = true
		v.EvolveAnimationMS = EvolveAnimation.Milliseconds()
	}
	return v
}

func bar(label string, value float64) Bar {
	return Bar{Label: label, Width: int(math.Round(pet.ClampStat(value)))}
}
