// ABOUTME: Audio output configuration and validation
// ABOUTME: Device selector plus sample-rate and buffer-size allow-lists
package device

import (
	"errors"
	"fmt"
)

// ErrNoOutputDevice means no output device exists on any backend.
var ErrNoOutputDevice = errors.New("no audio output device found")

// NotFoundError means a device selector named a host or device that
// does not exist.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("audio device %q not found", e.ID.String())
}

// Config selects the output device and stream geometry. A nil DeviceID
// means the platform default output device.
type Config struct {
	DeviceID   *ID
	SampleRate int
	BufferSize int
}

// DefaultConfig is the engine's initial audio configuration.
func DefaultConfig() Config {
	return Config{
		DeviceID:   nil,
		SampleRate: 44100,
		BufferSize: 512,
	}
}

// ValidSampleRate reports whether rate is in the candidate set.
func ValidSampleRate(rate int) bool {
	for _, r := range CandidateRates {
		if r == rate {
			return true
		}
	}
	return false
}

// ValidBufferSize reports whether size is a power of two in [32, 8192].
func ValidBufferSize(size int) bool {
	return size >= 32 && size <= 8192 && size&(size-1) == 0
}
