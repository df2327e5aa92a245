package cli

import (
	"fmt"
	"io"

	"github.com/MRamiBalles/PocketPet/internal/render"
)

// TerminalCues prints cues as a short note, or nothing when muted.
type TerminalCues struct {
	out  io.Writer
	mute bool
}

// NewTerminalCues writes cue notes to out.
func NewTerminalCues(out io.Writer, mute bool) *TerminalCues {
	return &TerminalCues{out: out, mute: mute}
}

// Play implements engine.CuePlayer.
func (t *TerminalCues) Play(c render.Cue) {
	if t.mute {
		return
	}
	fmt.Fprintf(t.out, "\a♪ %s\n", c)
}
