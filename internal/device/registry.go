// ABOUTME: Audio host and output device enumeration via PortAudio
// ABOUTME: Probes per-device sample rates, buffer bounds, and class-compliant heuristics
package device

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// CandidateRates is the fixed set of sample rates a device is probed
// against. Descriptors report the subset the device accepts.
var CandidateRates = []int{44100, 48000, 88200, 96000, 176400, 192000}

// Buffer-size bounds reported when the backend gives us nothing
// better. PortAudio does not expose per-device buffer ranges, so every
// descriptor currently carries this conservative window.
const (
	FallbackMinBuffer = 64
	FallbackMaxBuffer = 4096
)

// ID names a device as a (host, device name) pair. It serializes to
// "host:name" at the interface boundary; the device name may itself
// contain colons, so only the first colon splits.
type ID struct {
	Host string
	Name string
}

func (id ID) String() string {
	return id.Host + ":" + id.Name
}

// ParseID parses the "host:name" wire form.
func ParseID(s string) (ID, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ID{}, fmt.Errorf("invalid device ID format: %q", s)
	}
	return ID{Host: parts[0], Name: parts[1]}, nil
}

// HostInfo describes one audio backend.
type HostInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	IsDefault   bool   `json:"is_default"`
}

// Descriptor is a point-in-time snapshot of one output device. It is
// regenerated on every enumeration and must not be cached across
// device topology changes.
type Descriptor struct {
	ID            ID     `json:"-"`
	DeviceID      string `json:"id"`
	Name          string `json:"name"`
	HostID        string `json:"host_id"`
	IsDefault     bool   `json:"is_default"`
	IsExternal    bool   `json:"is_external"`
	SampleRates   []int  `json:"sample_rates"`
	MinBufferSize int    `json:"min_buffer_size"`
	MaxBufferSize int    `json:"max_buffer_size"`
	MaxChannels   int    `json:"channels"`
}

// externalTokens are name substrings marking known class-compliant USB
// interface brands. Matching is best-effort: a miss only affects a
// display label, never routing.
var externalTokens = []string{
	"usb",
	"focusrite",
	"scarlett",
	"steinberg",
	"presonus",
	"motu",
	"universal audio",
	"rme",
	"apogee",
	"audient",
	"ssl",
	"behringer",
	"arturia",
	"native instruments",
}

func isExternal(name string) bool {
	lower := strings.ToLower(name)
	for _, tok := range externalTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// hostID returns the stable identifier for a backend, matching the
// names users see in device IDs ("ALSA:hw:0").
func hostID(api *portaudio.HostApiInfo) string {
	switch api.Type {
	case portaudio.ALSA:
		return "ALSA"
	case portaudio.JACK:
		return "JACK"
	case portaudio.OSS:
		return "OSS"
	case portaudio.CoreAudio:
		return "CoreAudio"
	case portaudio.WASAPI:
		return "WASAPI"
	case portaudio.DirectSound:
		return "DirectSound"
	case portaudio.MME:
		return "MME"
	case portaudio.ASIO:
		return "ASIO"
	default:
		return api.Name
	}
}

// hostDisplayName maps backend identifiers onto user-facing labels.
func hostDisplayName(id string) string {
	switch id {
	case "WASAPI":
		return "Windows Audio (WASAPI)"
	case "ASIO":
		return "ASIO (Low Latency)"
	case "CoreAudio":
		return "macOS Core Audio"
	case "ALSA":
		return "Linux ALSA"
	case "OSS":
		return "Linux OSS"
	case "JACK":
		return "JACK Audio"
	default:
		return id
	}
}

// Hosts enumerates the available audio backends. PortAudio must be
// initialized.
func Hosts() ([]HostInfo, error) {
	apis, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate audio hosts: %w", err)
	}
	def, err := portaudio.DefaultHostApi()
	if err != nil {
		return nil, fmt.Errorf("failed to get default audio host: %w", err)
	}

	hosts := make([]HostInfo, 0, len(apis))
	for _, api := range apis {
		id := hostID(api)
		hosts = append(hosts, HostInfo{
			ID:          id,
			DisplayName: hostDisplayName(id),
			IsDefault:   api == def,
		})
	}
	return hosts, nil
}

// Outputs enumerates every output device of every backend, in backend
// then device discovery order. PortAudio must be initialized.
func Outputs() ([]Descriptor, error) {
	apis, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	var devices []Descriptor
	for _, api := range apis {
		host := hostID(api)
		for _, dev := range api.Devices {
			if dev.MaxOutputChannels <= 0 {
				continue
			}
			id := ID{Host: host, Name: dev.Name}
			devices = append(devices, Descriptor{
				ID:            id,
				DeviceID:      id.String(),
				Name:          dev.Name,
				HostID:        host,
				IsDefault:     dev == api.DefaultOutputDevice,
				IsExternal:    isExternal(dev.Name),
				SampleRates:   probeRates(dev),
				MinBufferSize: FallbackMinBuffer,
				MaxBufferSize: FallbackMaxBuffer,
				MaxChannels:   dev.MaxOutputChannels,
			})
		}
	}
	return devices, nil
}

// probeRates asks the backend which of the candidate rates the device
// accepts for output. Results are ascending because CandidateRates is.
func probeRates(dev *portaudio.DeviceInfo) []int {
	var rates []int
	for _, rate := range CandidateRates {
		p := portaudio.HighLatencyParameters(nil, dev)
		p.SampleRate = float64(rate)
		if portaudio.IsFormatSupported(p, func([][]float32) {}) == nil {
			rates = append(rates, rate)
		}
	}
	return rates
}

// Resolve maps a selector onto a concrete PortAudio device. A nil
// selector resolves to the platform default output device.
func Resolve(id *ID) (*portaudio.DeviceInfo, error) {
	if id == nil {
		dev, err := portaudio.DefaultOutputDevice()
		if err != nil || dev == nil {
			return nil, ErrNoOutputDevice
		}
		return dev, nil
	}

	apis, err := portaudio.HostApis()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for _, api := range apis {
		if hostID(api) != id.Host {
			continue
		}
		for _, dev := range api.Devices {
			if dev.Name == id.Name && dev.MaxOutputChannels > 0 {
				return dev, nil
			}
		}
		return nil, &NotFoundError{ID: *id}
	}
	return nil, &NotFoundError{ID: *id}
}
