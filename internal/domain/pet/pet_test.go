package pet

import (
	"sync"
	"testing"
)

func TestParseSpecies(t *testing.T) {
	tests := []struct {
		raw   string
		want  Species
		valid bool
	}{
		{"cat", SpeciesCat, true},
		{"  Panda ", SpeciesPanda, true},
		{"BUNNY", SpeciesBunny, true},
		{"\tfox\n", SpeciesFox, true},
		{"dragon", "dragon", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSpecies(tt.raw)
		if got != tt.want || ok != tt.valid {
			t.Errorf("ParseSpecies(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.valid)
		}
	}
}

func TestSpeciesLabelAndGlyph(t *testing.T) {
	tests := []struct {
		s     Species
		label string
		glyph string
	}{
		{SpeciesCat, "Cat", "🐱"},
		{SpeciesDog, "Dog", "🐶"},
		{SpeciesBunny, "Bunny", "🐰"},
		{SpeciesFox, "Fox", "🦊"},
		{SpeciesFrog, "Frog", "🐸"},
		{SpeciesPanda, "Panda", "🐼"},
		{"", "", GlyphUnknown},
	}
	for _, tt := range tests {
		if got := tt.s.Label(); got != tt.label {
			t.Errorf("%q.Label() = %q, want %q", tt.s, got, tt.label)
		}
		if got := tt.s.Glyph(); got != tt.glyph {
			t.Errorf("%q.Glyph() = %q, want %q", tt.s, got, tt.glyph)
		}
	}
}

func TestLabelIsSafeAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := SpeciesBunny.Label(); got != "Bunny" {
					t.Errorf("Expected Bunny, got %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestFace(t *testing.T) {
	tests := []struct {
		s     Species
		stage Stage
		want  string
	}{
		{"", StageAdult, GlyphUnknown},
		{SpeciesFox, StageBaby, GlyphBaby},
		{SpeciesFox, StageTeen, "🦊"},
		{SpeciesFox, StageAdult, "🦊" + GlyphSparkle},
	}
	for _, tt := range tests {
		if got := Face(tt.s, tt.stage); got != tt.want {
			t.Errorf("Face(%q, %q) = %q, want %q", tt.s, tt.stage, got, tt.want)
		}
	}
}

func TestOptionsFollowDisplayOrder(t *testing.T) {
	opts := Options()
	if len(opts) != len(Order) {
		t.Fatalf("Expected %d options, got %d", len(Order), len(opts))
	}
	for i, o := range opts {
		if o.Species != Order[i] || o.Label == "" || o.Glyph == GlyphUnknown {
			t.Errorf("Option %d malformed: %+v", i, o)
		}
	}
}

func TestNewStateAndClamp(t *testing.T) {
	s := NewState()
	if s.HasPet() || s.Stage != StageBaby || s.Age != 0 {
		t.Errorf("Unexpected defaults %+v", s)
	}

	s.Hunger, s.Happiness, s.Energy = -5, 140, 50
	s.Clamp()
	if s.Hunger != MinStat || s.Happiness != MaxStat || s.Energy != 50 {
		t.Errorf("Expected clamped vitals, got %+v", s)
	}
}
