package render

import (
	"strings"
	"testing"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
	"github.com/MRamiBalles/PocketPet/internal/domain/rules"
)

func adopted() pet.State {
	s := pet.NewState()
	s.Species = pet.SpeciesDog
	s.Name = "Rex"
	return s
}

func TestBuildWithoutPetShowsAdoption(t *testing.T) {
	v := Build(pet.NewState(), pet.StageBaby)
	if !v.ShowAdoption || v.Adopted {
		t.Fatalf("Expected adoption view, got %+v", v)
	}
	if len(v.Options) != len(pet.Order) {
		t.Errorf("Expected %d options, got %d", len(pet.Order), len(v.Options))
	}
	if v.Glyph != pet.GlyphUnknown || v.Status != rules.StatusNoPet {
		t.Errorf("Expected unknown glyph and adoption hint, got %q %q", v.Glyph, v.Status)
	}
}

func TestBuildGlyphPerStage(t *testing.T) {
	cases := []struct {
		stage pet.Stage
		want  string
	}{
		{pet.StageBaby, pet.GlyphBaby},
		{pet.StageTeen, "🐶"},
		{pet.StageAdult, "🐶✨"},
	}
	for _, tc := range cases {
		s := adopted()
		s.Stage = tc.stage
		if got := Build(s, tc.stage).Glyph; got != tc.want {
			t.Errorf("stage %s: expected %q, got %q", tc.stage, tc.want, got)
		}
	}
}

func TestBuildAttentionThresholds(t *testing.T) {
	cases := []struct {
		hunger, energy float64
		feed, sleep    bool
	}{
		{65, 35, false, false},
		{65.5, 34.5, true, true},
		{100, 0, true, true},
		{0, 100, false, false},
	}
	for _, tc := range cases {
		s := adopted()
		s.Hunger, s.Energy = tc.hunger, tc.energy
		v := Build(s, s.Stage)
		if v.FeedAttention != tc.feed || v.SleepAttention != tc.sleep {
			t.Errorf("hunger %v energy %v: expected feed=%v sleep=%v, got %v %v",
				tc.hunger, tc.energy, tc.feed, tc.sleep, v.FeedAttention, v.SleepAttention)
		}
	}
}

func TestBuildEvolvingOnStageChange(t *testing.T) {
	s := adopted()
	s.Stage = pet.StageTeen

	v := Build(s, pet.StageBaby)
	if !v.Evolving || v.EvolveAnimationMS != 600 {
		t.Errorf("Expected evolving view with 600ms animation, got %+v", v)
	}
	if Build(s, pet.StageTeen).Evolving {
		t.Error("Expected no evolving flag when stage is unchanged")
	}
}

func TestBuildBarsAndStatus(t *testing.T) {
	s := adopted()
	s.Hunger = 42.6
	s.Sleeping = true
	v := Build(s, s.Stage)
	if v.Hunger.Width != 43 || v.Happiness.Width != 70 || v.Energy.Width != 70 {
		t.Errorf("Unexpected bar widths: %+v %+v %+v", v.Hunger, v.Happiness, v.Energy)
	}
	if v.Status != rules.StatusSleeping || v.Mood != rules.MoodSleeping {
		t.Errorf("Expected sleeping status, got %q / %q", v.Status, v.Mood)
	}
}

func TestTextMarksAttention(t *testing.T) {
	s := adopted()
	s.Hunger = 90
	out := Text(Build(s, s.Stage))
	if !strings.Contains(out, "Rex") || !strings.Contains(out, "I'm hungry… (baby)") {
		t.Errorf("Expected name and mood in text, got:\n%s", out)
	}
	if !strings.Contains(out, " 90 !") {
		t.Errorf("Expected hunger bar flagged, got:\n%s", out)
	}
}

func TestCueTable(t *testing.T) {
	if CueFeed.FrequencyHz != 700 || CueFeed.Waveform != WaveSquare || CueFeed.DurationMS != 80 {
		t.Errorf("Unexpected feed cue %+v", CueFeed)
	}
	if CueReset.String() != "200Hz sawtooth 150ms" {
		t.Errorf("Unexpected reset cue %s", CueReset)
	}
	for _, c := range []Cue{CueFeed, CuePet, CueSleep, CueReset} {
		if c.Gain != CueGain {
			t.Errorf("Expected gain %v, got %v", CueGain, c.Gain)
		}
	}
}
