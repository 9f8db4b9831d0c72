// ABOUTME: Waveform definitions and per-sample synthesis
// ABOUTME: Generates sine, square, triangle and sawtooth samples from a normalized phase
package synth

import (
	"fmt"
	"math"
	"strings"
)

// MaxAmplitude is the hard amplitude ceiling. Sample re-clamps against
// it on every call, independent of any validation done upstream.
const MaxAmplitude = 0.8

// Waveform identifies one of the supported output shapes.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

// ParseWaveform maps a user-supplied name onto a Waveform,
// case-insensitively.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(name) {
	case "sine":
		return Sine, nil
	case "square":
		return Square, nil
	case "triangle":
		return Triangle, nil
	case "sawtooth":
		return Sawtooth, nil
	default:
		return Sine, fmt.Errorf("invalid waveform: %q", name)
	}
}

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	default:
		return "unknown"
	}
}

// Sample computes one output sample for the given waveform at
// phase ∈ [0,1) with the given amplitude. The result is always within
// [-MaxAmplitude, MaxAmplitude].
func Sample(w Waveform, phase, amplitude float64) float64 {
	amp := amplitude
	if amp > MaxAmplitude {
		amp = MaxAmplitude
	}
	if amp < 0 {
		amp = 0
	}

	switch w {
	case Sine:
		return amp * math.Sin(2*math.Pi*phase)
	case Square:
		if phase < 0.5 {
			return amp
		}
		return -amp
	case Triangle:
		if phase < 0.5 {
			return amp * (4*phase - 1)
		}
		return amp * (3 - 4*phase)
	case Sawtooth:
		return amp * (2*phase - 1)
	default:
		return 0
	}
}

// Oscillator is a phase accumulator stepping at frequency/sampleRate
// per sample. Phase stays in [0,1); the increment is < 1 for every
// supported frequency and sample rate, so a single wrap suffices.
type Oscillator struct {
	Phase float64
}

// Next advances the phase by one sample and returns the phase to use
// for that sample.
func (o *Oscillator) Next(frequency, sampleRate float64) float64 {
	p := o.Phase
	o.Phase += frequency / sampleRate
	if o.Phase >= 1.0 {
		o.Phase -= 1.0
	}
	return p
}
