// ABOUTME: Tests for the buffer-fill path of the stream manager
// ABOUTME: Verifies synthesis output, muted silence, phase continuity, and channel fan-out
package stream

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/CoherenceCore/coherence-go/internal/synth"
)

func newBuffer(channels, frames int) [][]float32 {
	out := make([][]float32, channels)
	for i := range out {
		out[i] = make([]float32, frames)
	}
	return out
}

func TestFillBufferMatchesSampleSequence(t *testing.T) {
	params := synth.NewParams()
	params.SetFrequency(40)
	params.SetAmplitude(0.5)
	params.SetWaveform(synth.Sine)
	params.SetPlaying(true)

	const rate = 44100.0
	var osc synth.Oscillator
	out := newBuffer(1, 64)
	fillBuffer(out, params, rate, &osc)

	var ref synth.Oscillator
	for i := 0; i < 64; i++ {
		want := float32(synth.Sample(synth.Sine, ref.Next(40, rate), 0.5))
		if out[0][i] != want {
			t.Fatalf("sample %d: expected %v, got %v", i, want, out[0][i])
		}
	}
}

func TestFillBufferSilentWhileMuted(t *testing.T) {
	params := synth.NewParams()
	params.SetPlaying(false)

	var osc synth.Oscillator
	out := newBuffer(2, 128)
	// Dirty the buffer to prove silence is written, not skipped.
	for ch := range out {
		for i := range out[ch] {
			out[ch][i] = 1.0
		}
	}
	fillBuffer(out, params, 44100, &osc)

	for ch := range out {
		for i, s := range out[ch] {
			if s != 0 {
				t.Fatalf("channel %d sample %d not silent: %v", ch, i, s)
			}
		}
	}

	// Phase keeps accumulating while muted.
	want := 128 * 40.0 / 44100.0
	for want >= 1.0 {
		want -= 1.0
	}
	if math.Abs(osc.Phase-want) > 1e-9 {
		t.Errorf("expected phase %v after muted buffer, got %v", want, osc.Phase)
	}
}

func TestFillBufferFansOutAcrossChannels(t *testing.T) {
	params := synth.NewParams()
	params.SetWaveform(synth.Sawtooth)
	params.SetPlaying(true)

	var osc synth.Oscillator
	out := newBuffer(4, 32)
	fillBuffer(out, params, 48000, &osc)

	for i := 0; i < 32; i++ {
		for ch := 1; ch < 4; ch++ {
			if out[ch][i] != out[0][i] {
				t.Fatalf("frame %d channel %d differs: %v vs %v",
					i, ch, out[ch][i], out[0][i])
			}
		}
	}
}

func TestFillBufferParamsReadOncePerBuffer(t *testing.T) {
	params := synth.NewParams()
	params.SetFrequency(10)
	params.SetAmplitude(0.5)
	params.SetWaveform(synth.Square)
	params.SetPlaying(true)

	var osc synth.Oscillator
	out := newBuffer(1, 16)
	fillBuffer(out, params, 44100, &osc)

	// A square at 10 Hz stays in its positive half for the whole
	// buffer; every sample must be the amplitude read at entry.
	for i, s := range out[0] {
		if s != 0.5 {
			t.Fatalf("sample %d: expected 0.5, got %v", i, s)
		}
	}
}

type scriptedStream struct {
	name     string
	events   *[]string
	startErr error
}

func (s *scriptedStream) Start() error {
	*s.events = append(*s.events, s.name+".start")
	return s.startErr
}

func (s *scriptedStream) Stop() error {
	*s.events = append(*s.events, s.name+".stop")
	return nil
}

func (s *scriptedStream) Close() error {
	*s.events = append(*s.events, s.name+".close")
	return nil
}

func TestSwapTearsDownOldBeforeStartingNew(t *testing.T) {
	var events []string
	old := &scriptedStream{name: "old", events: &events}
	next := &scriptedStream{name: "next", events: &events}

	if err := swapStreams(old, next); err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	want := []string{"old.stop", "old.close", "next.start"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("expected teardown before start, got %v", events)
	}
}

func TestSwapWithoutOldStreamJustStarts(t *testing.T) {
	var events []string
	next := &scriptedStream{name: "next", events: &events}

	if err := swapStreams(nil, next); err != nil {
		t.Fatalf("swap failed: %v", err)
	}
	if want := []string{"next.start"}; !reflect.DeepEqual(events, want) {
		t.Fatalf("expected only a start, got %v", events)
	}
}

func TestSwapStartFailureClosesNewStream(t *testing.T) {
	var events []string
	old := &scriptedStream{name: "old", events: &events}
	next := &scriptedStream{name: "next", events: &events, startErr: errors.New("no device")}

	err := swapStreams(old, next)
	if !errors.Is(err, ErrStreamBuild) {
		t.Fatalf("expected ErrStreamBuild, got %v", err)
	}

	want := []string{"old.stop", "old.close", "next.start", "next.close"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("expected failed stream closed after teardown, got %v", events)
	}
}

func TestManagerInactiveByDefault(t *testing.T) {
	m := NewManager(synth.NewParams())
	if m.Active() {
		t.Error("new manager should have no live stream")
	}
	if err := m.Close(); err != nil {
		t.Errorf("closing an idle manager should be a no-op, got %v", err)
	}
}
