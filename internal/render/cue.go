package render

import (
	"fmt"
	"time"
)

// Waveform is the oscillator shape of a cue.
type Waveform string

const (
	WaveSquare   Waveform = "square"
	WaveSine     Waveform = "sine"
	WaveTriangle Waveform = "triangle"
	WaveSawtooth Waveform = "sawtooth"
)

// CueGain is the fixed output level of every cue.
const CueGain = 0.04

// Cue is a short tone played in response to an owner action.
type Cue struct {
	FrequencyHz float64       `json:"frequency_hz"`
	Duration    time.Duration `json:"-"`
	DurationMS  int64         `json:"duration_ms"`
	Waveform    Waveform      `json:"waveform"`
	Gain        float64       `json:"gain"`
}

func newCue(freq float64, d time.Duration, w Waveform) Cue {
	return Cue{FrequencyHz: freq, Duration: d, DurationMS: d.Milliseconds(), Waveform: w, Gain: CueGain}
}

var (
	CueFeed  = newCue(700, 80*time.Millisecond, WaveSquare)
	CuePet   = newCue(500, 60*time.Millisecond, WaveSine)
	CueSleep = newCue(300, 100*time.Millisecond, WaveTriangle)
	CueReset = newCue(200, 150*time.Millisecond, WaveSawtooth)
)

func (c Cue) String() string {
	return fmt.Sprintf("%.0fHz %s %dms", c.FrequencyHz, c.Waveform, c.Duration.Milliseconds())
}

// Frame is one render pushed to a renderer: the view plus the cue that went
// with the change, if any.
type Frame struct {
	View View `json:"view"`
	Cue  *Cue `json:"cue,omitempty"`
}
