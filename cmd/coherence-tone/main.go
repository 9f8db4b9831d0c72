// ABOUTME: Diagnostic tone renderer over the default output
// ABOUTME: Plays a bounded tone through oto without the PortAudio device path
package main

import (
	"flag"
	"log"
	"time"

	"github.com/CoherenceCore/coherence-go/internal/engine"
	"github.com/CoherenceCore/coherence-go/internal/synth"
	"github.com/ebitengine/oto/v3"
)

var (
	frequency = flag.Float64("freq", 40.0, "Carrier frequency in Hz (1-60)")
	waveform  = flag.String("waveform", "sine", "Waveform: sine, square, triangle, sawtooth")
	amplitude = flag.Float64("amp", 0.5, "Amplitude (clamped to 0.8)")
	seconds   = flag.Int("seconds", 5, "Playback duration in seconds")
	rate      = flag.Int("rate", 44100, "Sample rate")
)

// toneReader streams synthesized samples as 16-bit little-endian PCM.
type toneReader struct {
	osc       synth.Oscillator
	waveform  synth.Waveform
	frequency float64
	amplitude float64
	rate      float64
}

func (r *toneReader) Read(p []byte) (int, error) {
	n := len(p) / 2
	for i := 0; i < n; i++ {
		s := synth.Sample(r.waveform, r.osc.Next(r.frequency, r.rate), r.amplitude)
		v := int16(s * 32767)
		p[i*2] = byte(v)
		p[i*2+1] = byte(v >> 8)
	}
	return n * 2, nil
}

func main() {
	flag.Parse()

	if *frequency < engine.MinFrequency || *frequency > engine.MaxFrequency {
		log.Fatalf("frequency must be between %g and %g Hz", engine.MinFrequency, engine.MaxFrequency)
	}
	w, err := synth.ParseWaveform(*waveform)
	if err != nil {
		log.Fatalf("%v", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   *rate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		log.Fatalf("failed to create audio context: %v", err)
	}
	<-ready

	// The session cutoff bounds diagnostics too.
	d := time.Duration(*seconds) * time.Second
	if d > engine.MaxSessionDuration {
		d = engine.MaxSessionDuration
		log.Printf("duration capped at %v", d)
	}

	reader := &toneReader{
		waveform:  w,
		frequency: *frequency,
		amplitude: *amplitude,
		rate:      float64(*rate),
	}
	player := ctx.NewPlayer(reader)
	player.Play()
	log.Printf("Playing %g Hz %s for %v", *frequency, w, d)

	time.Sleep(d)

	if err := player.Close(); err != nil {
		log.Printf("close: %v", err)
	}
}
