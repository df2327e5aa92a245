package pet

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Species is the stored tag of an adoptable pet kind.
type Species string

const (
	SpeciesCat   Species = "cat"
	SpeciesDog   Species = "dog"
	SpeciesBunny Species = "bunny"
	SpeciesFox   Species = "fox"
	SpeciesFrog  Species = "frog"
	SpeciesPanda Species = "panda"
)

// Glyphs used when drawing the pet.
const (
	GlyphUnknown = "❓"
	GlyphBaby    = "🐣"
	GlyphSparkle = "✨"
)

var glyphs = map[Species]string{
	SpeciesCat:   "🐱",
	SpeciesDog:   "🐶",
	SpeciesBunny: "🐰",
	SpeciesFox:   "🦊",
	SpeciesFrog:  "🐸",
	SpeciesPanda: "🐼",
}

// Order is the display order of the adoption choices.
var Order = []Species{SpeciesCat, SpeciesDog, SpeciesBunny, SpeciesFox, SpeciesFrog, SpeciesPanda}

// ParseSpecies normalises a tag and reports whether it names a known species.
func ParseSpecies(raw string) (Species, bool) {
	s := Species(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := glyphs[s]
	return s, ok
}

// Valid reports whether s is an adoptable species.
func (s Species) Valid() bool {
	_, ok := glyphs[s]
	return ok
}

// Glyph returns the species emoji, or the unknown glyph.
func (s Species) Glyph() string {
	if g, ok := glyphs[s]; ok {
		return g
	}
	return GlyphUnknown
}

// Label is the human readable species name ("Bunny"). A Caser is stateful,
// so each call builds its own.
func (s Species) Label() string {
	return cases.Title(language.English).String(string(s))
}

// Face is the glyph shown for a species at a given stage.
func Face(s Species, stage Stage) string {
	if s == "" {
		return GlyphUnknown
	}
	switch stage {
	case StageBaby:
		return GlyphBaby
	case StageAdult:
		return s.Glyph() + GlyphSparkle
	default:
		return s.Glyph()
	}
}

// Option describes one adoption choice.
type Option struct {
	Species Species `json:"species"`
	Label   string  `json:"label"`
	Glyph   string  `json:"glyph"`
}

// Options lists the adoption choices in display order.
func Options() []Option {
	out := make([]Option, 0, len(Order))
	for _, s := range Order {
		out = append(out, Option{Species: s, Label: s.Label(), Glyph: s.Glyph()})
	}
	return out
}
