// ABOUTME: Shared synthesis parameters between control plane and audio callback
// ABOUTME: Lock-free scalar fields plus a short critical section for the waveform kind
package synth

import (
	"math"
	"sync"
	"sync/atomic"
)

// Params carries the currently active synthesis parameters from the
// control plane to the real-time callback. Frequency, amplitude and
// the playing flag are single-word atomics, so a reader can never be
// blocked by a writer and never observes a torn value. The waveform
// kind sits behind a mutex whose critical section is a single
// assignment; the callback may still see a value one buffer period
// stale relative to a concurrent write, which is accepted.
//
// Params performs no validation; callers store values they have
// already validated or clamped.
type Params struct {
	frequencyBits atomic.Uint64
	amplitudeBits atomic.Uint64
	playing       atomic.Bool

	mu       sync.Mutex
	waveform Waveform
}

// NewParams returns a Params seeded with the engine defaults:
// 40 Hz, 0.5 amplitude, sine, not playing.
func NewParams() *Params {
	p := &Params{}
	p.SetFrequency(40.0)
	p.SetAmplitude(0.5)
	return p
}

func (p *Params) Frequency() float64 {
	return math.Float64frombits(p.frequencyBits.Load())
}

func (p *Params) SetFrequency(hz float64) {
	p.frequencyBits.Store(math.Float64bits(hz))
}

func (p *Params) Amplitude() float64 {
	return math.Float64frombits(p.amplitudeBits.Load())
}

func (p *Params) SetAmplitude(level float64) {
	p.amplitudeBits.Store(math.Float64bits(level))
}

func (p *Params) Playing() bool {
	return p.playing.Load()
}

func (p *Params) SetPlaying(on bool) {
	p.playing.Store(on)
}

func (p *Params) Waveform() Waveform {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waveform
}

func (p *Params) SetWaveform(w Waveform) {
	p.mu.Lock()
	p.waveform = w
	p.mu.Unlock()
}

// Snapshot reads all four fields. Each field is individually
// consistent; the snapshot as a whole is not required to be, because
// per-sample synthesis tolerates one-buffer-period staleness.
func (p *Params) Snapshot() (frequency, amplitude float64, w Waveform, playing bool) {
	return p.Frequency(), p.Amplitude(), p.Waveform(), p.Playing()
}
