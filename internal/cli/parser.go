// Package cli parses and runs the terminal commands of the pet game.
package cli

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/MRamiBalles/PocketPet/internal/domain/pet"
)

// Verbs understood by the session.
const (
	VerbAdopt   = "adopt"
	VerbFeed    = "feed"
	VerbPet     = "pet"
	VerbSleep   = "sleep"
	VerbStatus  = "status"
	VerbWait    = "wait"
	VerbReset   = "reset"
	VerbSpecies = "species"
	VerbHistory = "history"
	VerbHelp    = "help"
	VerbQuit    = "quit"
)

// CommandDef registers a verb with its aliases.
type CommandDef struct {
	Canonical string
	Aliases   []string
	Usage     string
}

// Command is a parsed input line.
type Command struct {
	Raw        string
	Verb       string // empty when nothing or more than one verb matched
	Args       []string
	Confidence float64
	Source     string   // exact, alias, prefix or lev
	Suggest    []string // other close verbs
}

type phrase struct {
	canonical string
	alias     string
}

type candidate struct {
	canonical string
	score     float64
	source    string
}

// Registry resolves typed verbs to canonical commands.
type Registry struct {
	commands map[string]CommandDef
	order    []string
	phrases  []phrase
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]CommandDef)}
}

// RegisterCommand adds a verb and its aliases.
func (r *Registry) RegisterCommand(c CommandDef) {
	c.Canonical = normalise(c.Canonical)
	if c.Canonical == "" {
		return
	}
	if _, dup := r.commands[c.Canonical]; !dup {
		r.order = append(r.order, c.Canonical)
	}
	r.commands[c.Canonical] = c
	r.phrases = append(r.phrases, phrase{canonical: c.Canonical, alias: c.Canonical})
	for _, a := range c.Aliases {
		if n := normalise(a); n != "" {
			r.phrases = append(r.phrases, phrase{canonical: c.Canonical, alias: n})
		}
	}
}

// Commands lists the registered commands in registration order.
func (r *Registry) Commands() []CommandDef {
	out := make([]CommandDef, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// DefaultRegistry knows every verb of the game.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range []CommandDef{
		{Canonical: VerbAdopt, Aliases: []string{"choose", "pick"}, Usage: "adopt <species> [name]"},
		{Canonical: VerbFeed, Aliases: []string{"eat", "food"}, Usage: "feed"},
		{Canonical: VerbPet, Aliases: []string{"cuddle", "stroke", "wake"}, Usage: "pet"},
		{Canonical: VerbSleep, Aliases: []string{"rest", "nap"}, Usage: "sleep"},
		{Canonical: VerbStatus, Aliases: []string{"look", "stats", "s"}, Usage: "status"},
		{Canonical: VerbWait, Aliases: []string{"tick", "z"}, Usage: "wait [n]"},
		{Canonical: VerbReset, Aliases: []string{"release"}, Usage: "reset"},
		{Canonical: VerbSpecies, Aliases: []string{"pets", "list"}, Usage: "species"},
		{Canonical: VerbHistory, Aliases: []string{"log", "journal"}, Usage: "history"},
		{Canonical: VerbHelp, Aliases: []string{"h", "?", "commands"}, Usage: "help"},
		{Canonical: VerbQuit, Aliases: []string{"exit", "q", "bye"}, Usage: "quit"},
	} {
		r.RegisterCommand(c)
	}
	return r
}

// Parse resolves the first word of raw to a verb; the rest become arguments.
// Arguments keep their original case so pet names survive.
func (r *Registry) Parse(raw string) Command {
	cmd := Command{Raw: raw}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return cmd
	}
	word := normalise(fields[0])
	cmd.Args = fields[1:]
	if word == "" {
		return cmd
	}

	cands := r.match(word)
	if len(cands) == 0 {
		return cmd
	}
	best := cands[0]
	for _, c := range cands[1:] {
		cmd.Suggest = append(cmd.Suggest, c.canonical)
	}
	// A shared best score between two verbs is ambiguous; ask instead.
	if len(cands) > 1 && cands[1].score == best.score {
		cmd.Suggest = append([]string{best.canonical}, cmd.Suggest...)
		return cmd
	}
	cmd.Verb = best.canonical
	cmd.Confidence = best.score
	cmd.Source = best.source
	return cmd
}

func (r *Registry) match(word string) []candidate {
	bestBy := map[string]candidate{}
	consider := func(c candidate) {
		if prev, ok := bestBy[c.canonical]; !ok || c.score > prev.score {
			bestBy[c.canonical] = c
		}
	}

	for _, p := range r.phrases {
		switch {
		case word == p.alias:
			if p.alias == p.canonical {
				consider(candidate{p.canonical, 1.0, "exact"})
			} else {
				consider(candidate{p.canonical, 0.97, "alias"})
			}
		case len(word) >= 2 && strings.HasPrefix(p.alias, word):
			consider(candidate{p.canonical, 0.9, "prefix"})
		case len(word) >= 3:
			dist := levenshtein.ComputeDistance(word, p.alias)
			if dist > levenshteinLimit(len(p.alias)) {
				continue
			}
			score := 0.72 - 0.08*float64(dist)
			consider(candidate{p.canonical, score, "lev"})
		}
	}

	out := make([]candidate, 0, len(bestBy))
	for _, c := range bestBy {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score == out[j].score {
			return out[i].canonical < out[j].canonical
		}
		return out[i].score > out[j].score
	})
	return out
}

// MatchSpecies resolves a typed species, tolerating small typos.
func MatchSpecies(raw string) (pet.Species, bool) {
	if s, ok := pet.ParseSpecies(raw); ok {
		return s, true
	}
	word := normalise(raw)
	if len(word) < 2 {
		return "", false
	}
	var best pet.Species
	bestDist := -1
	for _, s := range pet.Order {
		name := string(s)
		if strings.HasPrefix(name, word) {
			return s, true
		}
		dist := levenshtein.ComputeDistance(word, name)
		if dist > levenshteinLimit(len(name)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = s, dist
		}
	}
	return best, bestDist >= 0
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalise(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '?' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
