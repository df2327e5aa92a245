package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const barCells = 20

// TextRenderer draws frames as plain text, one block per frame.
type TextRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTextRenderer writes frames to out.
func NewTextRenderer(out io.Writer) *TextRenderer {
	return &TextRenderer{out: out}
}

// Render implements the engine's renderer contract.
func (r *TextRenderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	io.WriteString(r.out, Text(f.View))
}

// Text formats a view for a terminal.
func Text(v View) string {
	var b strings.Builder
	if v.ShowAdoption {
		fmt.Fprintf(&b, "%s  %s\n", v.Glyph, v.Status)
		for _, o := range v.Options {
			fmt.Fprintf(&b, "  %s %-6s (%s)\n", o.Glyph, o.Label, o.Species)
		}
		return b.String()
	}

	face := v.Glyph
	if v.Evolving {
		face = "✧ " + face + " ✧"
	}
	if v.Sleeping {
		face += " 💤"
	}
	fmt.Fprintf(&b, "%s  %s\n", face, v.Name)
	fmt.Fprintf(&b, "  %s\n", v.Status)
	writeBar(&b, v.Hunger, v.FeedAttention)
	writeBar(&b, v.Happiness, false)
	writeBar(&b, v.Energy, v.SleepAttention)
	fmt.Fprintf(&b, "  age %.1f  stage %s\n", v.Age, v.Stage)
	return b.String()
}

func writeBar(b *strings.Builder, bar Bar, attention bool) {
	filled := bar.Width * barCells / 100
	mark := ""
	if attention {
		mark = " !"
	}
	fmt.Fprintf(b, "  %-9s [%s%s] %3d%s\n", bar.Label,
		strings.Repeat("#", filled), strings.Repeat(".", barCells-filled), bar.Width, mark)
}
