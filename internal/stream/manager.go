// ABOUTME: Output stream lifecycle over PortAudio
// ABOUTME: Negotiates device and format, runs the buffer callback, swaps streams on reconfigure
package stream

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/CoherenceCore/coherence-go/internal/device"
	"github.com/CoherenceCore/coherence-go/internal/synth"
	"github.com/gordonklaus/portaudio"
)

// ErrUnsupportedConfig means the device rejected the requested format.
var ErrUnsupportedConfig = errors.New("unsupported stream configuration")

// ErrStreamBuild wraps backend failures while constructing or starting
// a stream.
var ErrStreamBuild = errors.New("failed to build output stream")

// Manager owns at most one live output stream. All methods are safe
// for concurrent use; reconfiguration is serialized against open and
// close through the manager lock, so two reopen attempts can never
// interleave.
//
// The audio callback itself never touches the manager lock: each
// stream closes over its own oscillator and reads only the shared
// synth.Params, whose fields are wait-free for readers.
type Manager struct {
	mu     sync.Mutex
	params *synth.Params
	stream *portaudio.Stream
}

// NewManager creates a manager bound to the given parameter channel.
func NewManager(params *synth.Params) *Manager {
	return &Manager{params: params}
}

// Active reports whether a stream is currently open.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream != nil
}

// EnsureOpen opens and starts a stream for cfg if none is live.
// Opening an already-open manager is a no-op.
func (m *Manager) EnsureOpen(cfg device.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream != nil {
		return nil
	}
	s, err := m.open(cfg)
	if err != nil {
		return err
	}
	if err := swapStreams(nil, s); err != nil {
		return err
	}
	m.stream = s
	return nil
}

// Reconfigure replaces the live stream with one built for cfg. The
// new stream is opened but not started before the old one is torn
// down: on open failure the previous stream stays intact and keeps
// running, and at no point are two streams started at once. If
// starting the new stream then fails, no stream is live. If no stream
// is live, Reconfigure validates cfg by opening and keeping a stream.
func (m *Manager) Reconfigure(cfg device.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.open(cfg)
	if err != nil {
		return err
	}

	var old streamHandle
	if m.stream != nil {
		old = m.stream
	}
	m.stream = nil
	if err := swapStreams(old, next); err != nil {
		return err
	}
	m.stream = next
	return nil
}

// streamHandle is the lifecycle surface of *portaudio.Stream needed
// by the swap sequencing.
type streamHandle interface {
	Start() error
	Stop() error
	Close() error
}

// swapStreams tears down old (if any) and only then starts next, so
// the two streams are never running concurrently. On start failure
// next is closed and the error is returned; old is already gone.
func swapStreams(old, next streamHandle) error {
	if old != nil {
		if err := old.Stop(); err != nil {
			log.Printf("stopping previous stream: %v", err)
		}
		if err := old.Close(); err != nil {
			log.Printf("closing previous stream: %v", err)
		}
	}
	if err := next.Start(); err != nil {
		next.Close()
		return fmt.Errorf("%w: %v", ErrStreamBuild, err)
	}
	return nil
}

// Close tears down the live stream, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil {
		return nil
	}
	s := m.stream
	m.stream = nil
	if err := s.Stop(); err != nil {
		log.Printf("stopping stream: %v", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

// open resolves the device, negotiates a format, and returns an
// opened but not yet started stream. Callers hold m.mu.
func (m *Manager) open(cfg device.Config) (*portaudio.Stream, error) {
	dev, err := device.Resolve(cfg.DeviceID)
	if err != nil {
		return nil, err
	}

	p := portaudio.HighLatencyParameters(nil, dev)
	p.SampleRate = float64(cfg.SampleRate)
	p.FramesPerBuffer = cfg.BufferSize
	p.Output.Channels = dev.MaxOutputChannels

	cb := newCallback(m.params, p.SampleRate)

	if err := portaudio.IsFormatSupported(p, cb); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedConfig, err)
	}

	s, err := portaudio.OpenStream(p, cb)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamBuild, err)
	}

	log.Printf("Audio stream open: device=%q rate=%d buffer=%d channels=%d",
		dev.Name, cfg.SampleRate, cfg.BufferSize, p.Output.Channels)
	return s, nil
}

// newCallback returns the per-buffer callback for one stream. The
// oscillator lives in the closure, so phase is continuous for the
// stream's lifetime; it keeps advancing while muted, which makes
// resume free of an unrelated phase jump.
func newCallback(params *synth.Params, sampleRate float64) func([][]float32) {
	var osc synth.Oscillator
	return func(out [][]float32) {
		fillBuffer(out, params, sampleRate, &osc)
	}
}

// fillBuffer renders one buffer. Parameters are read once per buffer,
// not per sample; the same mono value fans out across every channel of
// a frame. While not playing it writes exact silence but still steps
// the oscillator.
func fillBuffer(out [][]float32, params *synth.Params, sampleRate float64, osc *synth.Oscillator) {
	if len(out) == 0 {
		return
	}
	frequency, amplitude, waveform, playing := params.Snapshot()

	frames := len(out[0])
	for i := 0; i < frames; i++ {
		phase := osc.Next(frequency, sampleRate)
		var s float32
		if playing {
			s = float32(synth.Sample(waveform, phase, amplitude))
		}
		for ch := range out {
			out[ch][i] = s
		}
	}
}
