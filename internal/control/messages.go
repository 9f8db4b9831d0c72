// ABOUTME: Control-plane message definitions
// ABOUTME: JSON request/response envelopes and per-command parameter shapes
package control

import (
	"encoding/json"

	"github.com/CoherenceCore/coherence-go/internal/engine"
)

// Request is one command from a frontend. Params is decoded per
// command; commands without parameters omit it.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command string          `json:"command"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response answers exactly one Request, correlated by ID.
type Response struct {
	Type   string      `json:"type"`
	ID     string      `json:"id,omitempty"`
	OK     bool        `json:"ok"`
	Code   string      `json:"code,omitempty"`
	Error  string      `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

// Error codes carried in Response.Code.
const (
	CodeValidation = "validation"
	CodeDevice     = "device"
	CodeUnknown    = "unknown_command"
	CodeInternal   = "internal"
)

// StateUpdate is pushed to every client once per second and after
// state-changing commands.
type StateUpdate struct {
	Type  string              `json:"type"`
	State engine.SessionState `json:"state"`
}

// SetFrequencyParams carries the set_frequency argument.
type SetFrequencyParams struct {
	FrequencyHz float64 `json:"frequency_hz"`
}

// SetAmplitudeParams carries the set_amplitude argument.
type SetAmplitudeParams struct {
	Amplitude float64 `json:"amplitude"`
}

// SetWaveformParams carries the set_waveform argument.
type SetWaveformParams struct {
	Waveform string `json:"waveform"`
}

// SetAudioConfigParams carries the set_audio_config arguments; nil
// fields leave the stored value untouched.
type SetAudioConfigParams struct {
	DeviceID   *string `json:"device_id"`
	SampleRate *int    `json:"sample_rate"`
	BufferSize *int    `json:"buffer_size"`
}
