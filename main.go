// ABOUTME: Entry point for the CoherenceCore engine daemon
// ABOUTME: Parses CLI flags, wires engine, control plane, and TUI or headless mode
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/CoherenceCore/coherence-go/internal/control"
	"github.com/CoherenceCore/coherence-go/internal/engine"
	"github.com/CoherenceCore/coherence-go/internal/ui"
	"github.com/CoherenceCore/coherence-go/internal/version"
	"github.com/gordonklaus/portaudio"
)

var (
	port       = flag.Int("port", 8930, "Control server port")
	name       = flag.String("name", "", "Engine friendly name (default: hostname-coherence)")
	noMDNS     = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	logFile    = flag.String("log-file", "coherence-engine.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
	deviceID   = flag.String("device", "", "Output device as host:name (default: system default)")
	sampleRate = flag.Int("sample-rate", 0, "Output sample rate")
	bufferSize = flag.Int("buffer-size", 0, "Output buffer size in frames")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs)

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	engineName := *name
	if engineName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "coherence"
		}
		engineName = fmt.Sprintf("%s-coherence", hostname)
	}

	log.Printf("%s %s starting", version.Product, version.Version)

	if err := portaudio.Initialize(); err != nil {
		log.Fatalf("failed to initialize audio subsystem: %v", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	eng := engine.New()
	defer func() { _ = eng.Close() }()

	if err := applyFlagsConfig(eng); err != nil {
		log.Fatalf("invalid audio flags: %v", err)
	}

	if ok, err := eng.AudioAvailable(); err != nil || !ok {
		log.Printf("Warning: no audio output device detected (err=%v)", err)
	}

	srv := control.New(control.Config{
		Port:       *port,
		Name:       engineName,
		EnableMDNS: !*noMDNS,
	}, eng)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	if useTUI {
		if err := ui.Run(eng); err != nil {
			log.Printf("TUI error: %v", err)
		}
		srv.Stop()
	} else {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sig:
			log.Printf("Received %v, shutting down", s)
			srv.Stop()
		case err := <-serverDone:
			if err != nil {
				log.Fatalf("control server failed: %v", err)
			}
			return
		}
	}

	if err := <-serverDone; err != nil {
		log.Printf("control server failed: %v", err)
	}
}

// applyFlagsConfig seeds the engine audio config from CLI flags.
func applyFlagsConfig(eng *engine.Engine) error {
	var dev *string
	if *deviceID != "" {
		dev = deviceID
	}
	var rate, size *int
	if *sampleRate != 0 {
		rate = sampleRate
	}
	if *bufferSize != 0 {
		size = bufferSize
	}
	if dev == nil && rate == nil && size == nil {
		return nil
	}
	return eng.SetAudioConfig(dev, rate, size)
}
