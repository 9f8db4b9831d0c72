// ABOUTME: Build identity constants
// ABOUTME: Reported in logs and over the control plane
package version

const (
	Version      = "0.1.0"
	Product      = "CoherenceCore Engine"
	Manufacturer = "CoherenceCore"
)
