// ABOUTME: Hard safety envelopes for the tone engine
// ABOUTME: Session duration, amplitude, duty cycle, and cooldown limits
package engine

import (
	"time"

	"github.com/CoherenceCore/coherence-go/internal/synth"
)

const (
	// MaxSessionDuration is the absolute playback cutoff. The safety
	// timer enforces it unconditionally; no code path may suppress,
	// delay, or disable the cutoff at runtime.
	MaxSessionDuration = 15 * time.Minute

	// MaxAmplitude is the output amplitude ceiling, enforced at both
	// the operation layer and again inside per-sample synthesis.
	MaxAmplitude = synth.MaxAmplitude

	// MaxDutyCycle is a declared limit. All four waveforms are
	// continuously on, so synthesis does not consume it yet; it is
	// exposed so frontends can display the full envelope.
	MaxDutyCycle = 0.7

	// CooldownPeriod is a declared limit, advisory to frontends.
	// No transition currently enforces it after stop or cutoff.
	CooldownPeriod = 5 * time.Minute

	// MinFrequency and MaxFrequency bound the carrier.
	MinFrequency = 1.0
	MaxFrequency = 60.0
)

// SafetyLimits is the read-only envelope exposed to frontends. Field
// names match the keys the desktop frontend consumes.
type SafetyLimits struct {
	MaxSessionDurationMs int64   `json:"maxSessionDurationMs"`
	MaxAmplitude         float64 `json:"maxAmplitude"`
	MaxDutyCycle         float64 `json:"maxDutyCycle"`
	CooldownPeriodMs     int64   `json:"cooldownPeriodMs"`
}

// Limits returns the safety envelope.
func Limits() SafetyLimits {
	return SafetyLimits{
		MaxSessionDurationMs: MaxSessionDuration.Milliseconds(),
		MaxAmplitude:         MaxAmplitude,
		MaxDutyCycle:         MaxDutyCycle,
		CooldownPeriodMs:     CooldownPeriod.Milliseconds(),
	}
}
