// ABOUTME: Tests for the shared parameter channel
// ABOUTME: Covers defaults, store/load round trips, and concurrent access
package synth

import (
	"sync"
	"testing"
)

func TestParamsDefaults(t *testing.T) {
	p := NewParams()
	if p.Frequency() != 40.0 {
		t.Errorf("expected default frequency 40, got %v", p.Frequency())
	}
	if p.Amplitude() != 0.5 {
		t.Errorf("expected default amplitude 0.5, got %v", p.Amplitude())
	}
	if p.Waveform() != Sine {
		t.Errorf("expected default waveform sine, got %v", p.Waveform())
	}
	if p.Playing() {
		t.Error("expected not playing by default")
	}
}

func TestParamsRoundTrip(t *testing.T) {
	p := NewParams()

	p.SetFrequency(7.5)
	if p.Frequency() != 7.5 {
		t.Errorf("frequency round trip failed: %v", p.Frequency())
	}

	p.SetAmplitude(0.25)
	if p.Amplitude() != 0.25 {
		t.Errorf("amplitude round trip failed: %v", p.Amplitude())
	}

	p.SetWaveform(Sawtooth)
	if p.Waveform() != Sawtooth {
		t.Errorf("waveform round trip failed: %v", p.Waveform())
	}

	p.SetPlaying(true)
	if !p.Playing() {
		t.Error("playing round trip failed")
	}
}

func TestParamsSnapshot(t *testing.T) {
	p := NewParams()
	p.SetFrequency(12)
	p.SetAmplitude(0.3)
	p.SetWaveform(Triangle)
	p.SetPlaying(true)

	f, a, w, playing := p.Snapshot()
	if f != 12 || a != 0.3 || w != Triangle || !playing {
		t.Errorf("snapshot mismatch: %v %v %v %v", f, a, w, playing)
	}
}

func TestParamsConcurrentWrites(t *testing.T) {
	p := NewParams()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				p.SetFrequency(float64(1 + n))
				p.SetAmplitude(float64(n) / 10)
				p.SetWaveform(Waveform(n % 4))
				_, _, _, _ = p.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	// Whatever won, each field must hold a value some writer stored.
	f := p.Frequency()
	if f < 1 || f > 8 {
		t.Errorf("frequency holds a torn or foreign value: %v", f)
	}
}
