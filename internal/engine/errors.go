// ABOUTME: Error taxonomy for engine operations
// ABOUTME: Validation errors vs device errors; the safety cutoff is never an error
package engine

import (
	"errors"
	"fmt"

	"github.com/CoherenceCore/coherence-go/internal/device"
	"github.com/CoherenceCore/coherence-go/internal/stream"
)

// ValidationError means an operation received input outside its
// allowed range. Session state is never mutated on a validation
// failure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsDeviceError reports whether err came from device resolution or
// stream construction. On a device error any previously active stream
// is in a well-defined state: either still running (reconfigure build
// failure) or fully closed with the session stopped.
func IsDeviceError(err error) bool {
	var nf *device.NotFoundError
	return errors.Is(err, device.ErrNoOutputDevice) ||
		errors.Is(err, stream.ErrUnsupportedConfig) ||
		errors.Is(err, stream.ErrStreamBuild) ||
		errors.As(err, &nf)
}
