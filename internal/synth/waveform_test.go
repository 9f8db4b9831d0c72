// ABOUTME: Tests for waveform synthesis and phase accumulation
// ABOUTME: Covers shape formulas, amplitude clamping, parsing, and wrap behavior
package synth

import (
	"math"
	"testing"
)

func TestSineAtPhaseZero(t *testing.T) {
	s := Sample(Sine, 0, 1.0)
	if math.Abs(s) > 1e-9 {
		t.Errorf("expected ~0.0 at phase 0, got %v", s)
	}
}

func TestSquareHalves(t *testing.T) {
	if got := Sample(Square, 0.25, 0.5); got != 0.5 {
		t.Errorf("expected 0.5 in first half, got %v", got)
	}
	if got := Sample(Square, 0.75, 0.5); got != -0.5 {
		t.Errorf("expected -0.5 in second half, got %v", got)
	}
}

func TestTrianglePeaks(t *testing.T) {
	cases := []struct {
		phase, want float64
	}{
		{0.0, -0.5},
		{0.25, 0.0},
		{0.5, 0.5},
		{0.75, 0.0},
	}
	for _, c := range cases {
		got := Sample(Triangle, c.phase, 0.5)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("triangle at phase %v: expected %v, got %v", c.phase, c.want, got)
		}
	}
}

func TestSawtoothRamp(t *testing.T) {
	if got := Sample(Sawtooth, 0, 0.5); got != -0.5 {
		t.Errorf("expected -0.5 at phase 0, got %v", got)
	}
	if got := Sample(Sawtooth, 0.5, 0.5); got != 0 {
		t.Errorf("expected 0 at phase 0.5, got %v", got)
	}
}

func TestSampleClampsAmplitude(t *testing.T) {
	// Amplitude above the ceiling is clamped regardless of upstream checks.
	got := Sample(Square, 0.25, 2.0)
	if got != MaxAmplitude {
		t.Errorf("expected clamp to %v, got %v", MaxAmplitude, got)
	}
	if got := Sample(Square, 0.25, -1.0); got != 0 {
		t.Errorf("expected negative amplitude to clamp to 0, got %v", got)
	}
}

func TestSampleBounded(t *testing.T) {
	waves := []Waveform{Sine, Square, Triangle, Sawtooth}
	for _, w := range waves {
		for phase := 0.0; phase < 1.0; phase += 0.01 {
			s := Sample(w, phase, 1.0)
			if s > MaxAmplitude || s < -MaxAmplitude {
				t.Fatalf("%v at phase %v out of bounds: %v", w, phase, s)
			}
		}
	}
}

func TestParseWaveform(t *testing.T) {
	cases := []struct {
		in   string
		want Waveform
	}{
		{"sine", Sine},
		{"SINE", Sine},
		{"Square", Square},
		{"triangle", Triangle},
		{"SawTooth", Sawtooth},
	}
	for _, c := range cases {
		got, err := ParseWaveform(c.in)
		if err != nil {
			t.Errorf("ParseWaveform(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseWaveform(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := ParseWaveform("noise"); err == nil {
		t.Error("expected error for unknown waveform")
	}
}

func TestWaveformString(t *testing.T) {
	for _, w := range []Waveform{Sine, Square, Triangle, Sawtooth} {
		parsed, err := ParseWaveform(w.String())
		if err != nil || parsed != w {
			t.Errorf("round trip failed for %v: %v", w, err)
		}
	}
}

func TestOscillatorWrap(t *testing.T) {
	o := Oscillator{}
	const rate = 44100.0
	const freq = 40.0

	// One full cycle plus a few samples.
	cycle := rate / freq
	steps := int(cycle) + 5
	for i := 0; i < steps; i++ {
		p := o.Next(freq, rate)
		if p < 0 || p >= 1.0 {
			t.Fatalf("phase out of range at step %d: %v", i, p)
		}
	}
}

func TestOscillatorIncrement(t *testing.T) {
	o := Oscillator{}
	o.Next(40, 44100)
	want := 40.0 / 44100.0
	if math.Abs(o.Phase-want) > 1e-12 {
		t.Errorf("expected phase %v after one step, got %v", want, o.Phase)
	}
}
