// ABOUTME: Tests for device identifiers, heuristics, and config validation
// ABOUTME: Covers the pure parts of the registry; enumeration needs real hardware
package device

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIDRoundTrip(t *testing.T) {
	id := ID{Host: "ALSA", Name: "Scarlett 2i2 USB"}
	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}
	if diff := cmp.Diff(id, parsed); diff != "" {
		t.Errorf("ID round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIDKeepsColonsInName(t *testing.T) {
	parsed, err := ParseID("ALSA:hw:CARD=USB,DEV=0")
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}
	want := ID{Host: "ALSA", Name: "hw:CARD=USB,DEV=0"}
	if parsed != want {
		t.Errorf("expected %+v, got %+v", want, parsed)
	}
}

func TestParseIDRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "ALSA", "ALSA:", ":Speakers"} {
		if _, err := ParseID(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestIsExternal(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Scarlett 2i2 USB", true},
		{"Focusrite USB Audio", true},
		{"MOTU M2", true},
		{"Built-in Audio Analog Stereo", false},
		{"HDA Intel PCH", false},
		{"BEHRINGER UMC404HD", true},
	}
	for _, c := range cases {
		if got := isExternal(c.name); got != c.want {
			t.Errorf("isExternal(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestHostDisplayName(t *testing.T) {
	if got := hostDisplayName("ALSA"); got != "Linux ALSA" {
		t.Errorf("unexpected ALSA display name: %q", got)
	}
	// Unknown hosts pass through unchanged.
	if got := hostDisplayName("PipeWire"); got != "PipeWire" {
		t.Errorf("unexpected passthrough: %q", got)
	}
}

func TestValidSampleRate(t *testing.T) {
	for _, rate := range CandidateRates {
		if !ValidSampleRate(rate) {
			t.Errorf("candidate rate %d rejected", rate)
		}
	}
	for _, rate := range []int{0, 22050, 44123, 384000} {
		if ValidSampleRate(rate) {
			t.Errorf("rate %d should be rejected", rate)
		}
	}
}

func TestValidBufferSize(t *testing.T) {
	for _, size := range []int{32, 64, 512, 8192} {
		if !ValidBufferSize(size) {
			t.Errorf("buffer size %d rejected", size)
		}
	}
	for _, size := range []int{0, 16, 48, 500, 16384, -512} {
		if ValidBufferSize(size) {
			t.Errorf("buffer size %d should be rejected", size)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DeviceID != nil {
		t.Error("default config should use the default device")
	}
	if cfg.SampleRate != 44100 || cfg.BufferSize != 512 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{ID: ID{Host: "ALSA", Name: "NonexistentCard"}}
	if err.Error() == "" {
		t.Error("expected a message")
	}
}
