// ABOUTME: Tests for mDNS advertisement setup
// ABOUTME: Covers manager construction and local IP discovery
package discovery

import (
	"testing"
)

func TestNewManager(t *testing.T) {
	m := NewManager(Config{ServiceName: "coherence-test", Port: 8930})
	if m == nil {
		t.Fatal("expected manager")
	}
	if m.config.Port != 8930 {
		t.Errorf("port = %d", m.config.Port)
	}
	// Stop before advertising must not panic.
	m.Stop()
}

func TestGetLocalIPs(t *testing.T) {
	ips, err := getLocalIPs()
	if err != nil {
		t.Fatalf("getLocalIPs failed: %v", err)
	}
	for _, ip := range ips {
		if ip.IsLoopback() {
			t.Errorf("loopback address returned: %v", ip)
		}
		if ip.To4() == nil {
			t.Errorf("non-IPv4 address returned: %v", ip)
		}
	}
}
