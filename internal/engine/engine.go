// ABOUTME: Session supervisor and public engine operations
// ABOUTME: Owns session state, audio config, and the safety timer enforcing the cutoff
package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/CoherenceCore/coherence-go/internal/device"
	"github.com/CoherenceCore/coherence-go/internal/stream"
	"github.com/CoherenceCore/coherence-go/internal/synth"
)

// StreamController is the stream topology the engine drives. The
// default implementation is stream.Manager; tests substitute fakes.
type StreamController interface {
	EnsureOpen(device.Config) error
	Reconfigure(device.Config) error
	Close() error
	Active() bool
}

// DeviceLister enumerates audio backends and output devices.
type DeviceLister interface {
	Hosts() ([]device.HostInfo, error)
	Outputs() ([]device.Descriptor, error)
}

// portAudioRegistry adapts the device package to DeviceLister.
type portAudioRegistry struct{}

func (portAudioRegistry) Hosts() ([]device.HostInfo, error) { return device.Hosts() }

func (portAudioRegistry) Outputs() ([]device.Descriptor, error) { return device.Outputs() }

// SessionState is the snapshot returned to callers.
type SessionState struct {
	IsPlaying      bool    `json:"is_playing"`
	FrequencyHz    float64 `json:"frequency_hz"`
	Amplitude      float64 `json:"amplitude"`
	Waveform       string  `json:"waveform"`
	SessionStartMs *int64  `json:"session_start_ms,omitempty"`
	ElapsedMs      int64   `json:"elapsed_ms"`
	RemainingMs    int64   `json:"remaining_ms"`
}

// AudioConfig is the externally visible audio configuration. A nil
// DeviceID means the platform default output device.
type AudioConfig struct {
	DeviceID   *string `json:"device_id"`
	SampleRate int     `json:"sample_rate"`
	BufferSize int     `json:"buffer_size"`
}

// sessionPhase distinguishes how a session ended. phaseCutoff is
// observably identical to phaseIdle; it exists to record that the
// transition was automatic, not user-initiated.
type sessionPhase int

const (
	phaseIdle sessionPhase = iota
	phasePlaying
	phaseCutoff
)

// Engine is one tone-engine instance. All operations are safe for
// concurrent use; session state is serialized under a single lock that
// the real-time callback never touches. Multiple instances may
// coexist, each owning its own streams.
type Engine struct {
	mu sync.Mutex

	frequency float64
	amplitude float64
	waveform  synth.Waveform
	phase     sessionPhase
	start     time.Time
	started   bool
	elapsed   time.Duration

	cfg     device.Config
	params  *synth.Params
	streams StreamController
	devices DeviceLister

	timerStop chan struct{}

	// Injectable for tests.
	now  func() time.Time
	tick time.Duration
}

// New creates an engine backed by PortAudio. The caller is
// responsible for portaudio.Initialize/Terminate around the engine's
// lifetime.
func New() *Engine {
	params := synth.NewParams()
	return newEngine(params, stream.NewManager(params), portAudioRegistry{})
}

// NewWithBackends creates an engine over explicit stream and device
// backends. Used by tests and by embedders that bring their own audio
// topology.
func NewWithBackends(streams StreamController, devices DeviceLister) *Engine {
	return newEngine(synth.NewParams(), streams, devices)
}

func newEngine(params *synth.Params, streams StreamController, devices DeviceLister) *Engine {
	return &Engine{
		frequency: 40.0,
		amplitude: 0.5,
		waveform:  synth.Sine,
		cfg:       device.DefaultConfig(),
		params:    params,
		streams:   streams,
		devices:   devices,
		now:       time.Now,
		tick:      time.Second,
	}
}

// SessionState returns the current session snapshot, recomputing
// elapsed and remaining time while playing.
func (e *Engine) SessionState() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == phasePlaying && e.started {
		e.elapsed = e.now().Sub(e.start)
	}

	s := SessionState{
		IsPlaying:   e.phase == phasePlaying,
		FrequencyHz: e.frequency,
		Amplitude:   e.amplitude,
		Waveform:    e.waveform.String(),
		ElapsedMs:   e.elapsed.Milliseconds(),
		RemainingMs: MaxSessionDuration.Milliseconds() - e.elapsed.Milliseconds(),
	}
	if s.RemainingMs < 0 {
		s.RemainingMs = 0
	}
	if e.started {
		ms := e.start.UnixMilli()
		s.SessionStartMs = &ms
	}
	return s
}

// SetFrequency sets the carrier frequency. Frequencies outside
// [MinFrequency, MaxFrequency] are rejected and leave state unchanged.
func (e *Engine) SetFrequency(hz float64) error {
	if hz < MinFrequency || hz > MaxFrequency {
		return validationErrorf("frequency must be between %g and %g Hz", MinFrequency, MaxFrequency)
	}

	e.mu.Lock()
	e.frequency = hz
	e.mu.Unlock()

	e.params.SetFrequency(hz)
	return nil
}

// SetAmplitude sets the output amplitude, silently clamping into
// [0, MaxAmplitude]. It always succeeds and returns the stored value.
func (e *Engine) SetAmplitude(level float64) float64 {
	if level > MaxAmplitude {
		level = MaxAmplitude
	}
	if level < 0 {
		level = 0
	}

	e.mu.Lock()
	e.amplitude = level
	e.mu.Unlock()

	e.params.SetAmplitude(level)
	return level
}

// SetWaveform selects the output waveform by name, case-insensitively.
func (e *Engine) SetWaveform(name string) error {
	w, err := synth.ParseWaveform(name)
	if err != nil {
		return &ValidationError{Msg: err.Error()}
	}

	e.mu.Lock()
	e.waveform = w
	e.mu.Unlock()

	e.params.SetWaveform(w)
	return nil
}

// StartSession opens the output stream if needed, enables audio, and
// arms the safety timer. Starting while already playing is a no-op and
// does not arm a second timer.
func (e *Engine) StartSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == phasePlaying {
		return nil
	}

	if err := e.streams.EnsureOpen(e.cfg); err != nil {
		return fmt.Errorf("failed to start audio: %w", err)
	}

	e.phase = phasePlaying
	e.start = e.now()
	e.started = true
	e.elapsed = 0

	e.params.SetPlaying(true)

	stop := make(chan struct{})
	e.timerStop = stop
	go e.safetyTimer(stop)

	log.Printf("Session started: %.1f Hz %s amplitude %.2f", e.frequency, e.waveform, e.amplitude)
	return nil
}

// StopSession disables audio output and asks the safety timer to exit.
// The stream stays open, emitting silence; only device or config
// changes tear it down. Stopping while idle is a no-op. StopSession
// does not wait for the timer goroutine to terminate.
func (e *Engine) StopSession() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
	log.Printf("Session stopped")
	return nil
}

// stopLocked performs the stop transition. Callers hold e.mu.
func (e *Engine) stopLocked() {
	e.params.SetPlaying(false)
	e.phase = phaseIdle
	e.started = false
	e.elapsed = 0

	if e.timerStop != nil {
		close(e.timerStop)
		e.timerStop = nil
	}
}

// safetyTimer enforces the session cutoff. It wakes once per tick,
// checks elapsed time, and on reaching MaxSessionDuration performs the
// stop transition itself so the cutoff holds even if the control plane
// is wedged. Cancellation is cooperative via stop.
func (e *Engine) safetyTimer(stop <-chan struct{}) {
	t := time.NewTicker(e.tick)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if e.cutoffCheck() {
				return
			}
		}
	}
}

// cutoffCheck returns true when the timer should exit, either because
// the session is no longer playing or because it just enforced the
// cutoff.
func (e *Engine) cutoffCheck() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != phasePlaying {
		return true
	}
	if e.now().Sub(e.start) < MaxSessionDuration {
		return false
	}

	log.Printf("Safety cutoff reached after %v", MaxSessionDuration)
	e.params.SetPlaying(false)
	e.phase = phaseCutoff
	e.started = false
	e.elapsed = MaxSessionDuration
	e.timerStop = nil
	return true
}

// AudioConfig returns the current audio configuration.
func (e *Engine) AudioConfig() AudioConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return exportConfig(e.cfg)
}

// SetAudioConfig validates and applies a configuration change. Nil
// arguments leave the corresponding field untouched; an empty device
// ID reselects the platform default device. While playing the stream
// is hot-swapped; the change commits only if the swap succeeds, so a
// failed call leaves both the stored config and the stream topology as
// they were (or, if the swap lost the old stream, fully stopped).
func (e *Engine) SetAudioConfig(deviceID *string, sampleRate, bufferSize *int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.cfg
	if deviceID != nil {
		if *deviceID == "" {
			next.DeviceID = nil
		} else {
			id, err := device.ParseID(*deviceID)
			if err != nil {
				return &ValidationError{Msg: err.Error()}
			}
			next.DeviceID = &id
		}
	}
	if sampleRate != nil {
		if !device.ValidSampleRate(*sampleRate) {
			return validationErrorf("unsupported sample rate: %d", *sampleRate)
		}
		next.SampleRate = *sampleRate
	}
	if bufferSize != nil {
		if !device.ValidBufferSize(*bufferSize) {
			return validationErrorf("buffer size must be a power of 2 between 32 and 8192, got %d", *bufferSize)
		}
		next.BufferSize = *bufferSize
	}

	switch {
	case e.phase == phasePlaying:
		if err := e.streams.Reconfigure(next); err != nil {
			if !e.streams.Active() {
				// The swap consumed the old stream: land in the
				// documented fallback state, stopped with no stream.
				e.stopLocked()
			}
			return fmt.Errorf("failed to apply audio config: %w", err)
		}
	case e.streams.Active():
		// Idle with an open (silent) stream: tear it down so the next
		// start reopens with the new config.
		if err := e.streams.Close(); err != nil {
			return fmt.Errorf("failed to apply audio config: %w", err)
		}
	}

	e.cfg = next
	log.Printf("Audio config updated: rate=%d buffer=%d device=%v",
		next.SampleRate, next.BufferSize, exportConfig(next).DeviceID)
	return nil
}

// Hosts lists the available audio backends.
func (e *Engine) Hosts() ([]device.HostInfo, error) {
	return e.devices.Hosts()
}

// Devices lists every output device across all backends.
func (e *Engine) Devices() ([]device.Descriptor, error) {
	return e.devices.Outputs()
}

// AudioAvailable reports whether any output device exists.
func (e *Engine) AudioAvailable() (bool, error) {
	devs, err := e.devices.Outputs()
	if err != nil {
		return false, err
	}
	return len(devs) > 0, nil
}

// Close stops the session and tears down the stream.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	return e.streams.Close()
}

func exportConfig(cfg device.Config) AudioConfig {
	out := AudioConfig{
		SampleRate: cfg.SampleRate,
		BufferSize: cfg.BufferSize,
	}
	if cfg.DeviceID != nil {
		s := cfg.DeviceID.String()
		out.DeviceID = &s
	}
	return out
}
