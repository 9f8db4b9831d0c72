// ABOUTME: WebSocket control plane over the tone engine
// ABOUTME: Manages client connections, dispatches JSON commands, pushes state updates
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/CoherenceCore/coherence-go/internal/discovery"
	"github.com/CoherenceCore/coherence-go/internal/engine"
	"github.com/CoherenceCore/coherence-go/internal/version"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Config holds control-plane configuration.
type Config struct {
	Port       int
	Name       string
	EnableMDNS bool
}

// Server exposes every engine operation to local frontends over
// WebSocket. It is the process's command-dispatch boundary; the engine
// itself never sees a socket.
type Server struct {
	config   Config
	serverID string
	engine   *engine.Engine

	upgrader   websocket.Upgrader
	httpServer *http.Server
	mux        *http.ServeMux

	clients   map[string]*client
	clientsMu sync.RWMutex

	mdnsManager *discovery.Manager

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// client is one connected frontend.
type client struct {
	id   string
	conn *websocket.Conn
	send chan interface{}
}

// New creates a control server over eng.
func New(config Config, eng *engine.Engine) *Server {
	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		engine:   eng,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Local frontends only; non-browser clients send no
				// Origin header at all.
				return true
			},
		},
		clients:  make(map[string]*client),
		stopChan: make(chan struct{}),
	}
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	return s
}

// Start runs the server until Stop is called or the listener fails.
func (s *Server) Start() error {
	log.Printf("Control server starting: %s (ID: %s)", s.config.Name, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.broadcastLoop()
	}()

	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Control server listening on %s", addr)
	s.httpServer = &http.Server{Addr: addr, Handler: s.mux}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-s.stopChan:
		log.Printf("Control server shutting down...")
	case err := <-errChan:
		serverErr = err
	}

	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Shutdown does not touch hijacked connections; force the
	// websocket clients closed so their read loops exit.
	s.closeClients()

	s.wg.Wait()
	if serverErr != nil {
		return fmt.Errorf("control server failed: %w", serverErr)
	}
	return nil
}

// Stop shuts the server down. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

// closeClients closes every connected client's underlying connection,
// which unblocks its read loop and tears the client down.
func (s *Server) closeClients() {
	s.clientsMu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for _, c := range s.clients {
		conns = append(conns, c.conn)
	}
	s.clientsMu.RUnlock()
	for _, conn := range conns {
		conn.Close()
	}
}

// Handler returns the HTTP handler, for embedding in tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan interface{}, 16),
	}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()
	log.Printf("Control client connected: %s (%s)", c.id, r.RemoteAddr)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.writePump(c)
	}()

	s.readLoop(c)
}

// readLoop decodes requests and answers them until the connection
// drops.
func (s *Server) readLoop(c *client) {
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, c.id)
		s.clientsMu.Unlock()
		close(c.send)
		c.conn.Close()
		log.Printf("Control client disconnected: %s", c.id)
	}()

	for {
		var req Request
		if err := c.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Control client read error: %v", err)
			}
			return
		}

		resp := s.dispatch(req)
		select {
		case c.send <- resp:
		default:
			log.Printf("Dropping response to slow client %s", c.id)
		}
	}
}

// writePump serializes all writes for one connection.
func (s *Server) writePump(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// broadcastLoop pushes the session state to every client once per
// second, so frontends track the countdown and the safety cutoff
// without polling.
func (s *Server) broadcastLoop() {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-t.C:
			update := StateUpdate{Type: "state", State: s.engine.SessionState()}
			s.clientsMu.RLock()
			for _, c := range s.clients {
				select {
				case c.send <- update:
				default:
				}
			}
			s.clientsMu.RUnlock()
		}
	}
}

// dispatch executes one command against the engine.
func (s *Server) dispatch(req Request) Response {
	result, err := s.execute(req)
	if err != nil {
		return Response{
			Type:  "response",
			ID:    req.ID,
			OK:    false,
			Code:  errorCode(err),
			Error: err.Error(),
		}
	}
	return Response{Type: "response", ID: req.ID, OK: true, Result: result}
}

func (s *Server) execute(req Request) (interface{}, error) {
	switch req.Command {
	case "get_session_state":
		return s.engine.SessionState(), nil

	case "set_frequency":
		var p SetFrequencyParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if err := s.engine.SetFrequency(p.FrequencyHz); err != nil {
			return nil, err
		}
		return s.engine.SessionState(), nil

	case "set_amplitude":
		var p SetAmplitudeParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		stored := s.engine.SetAmplitude(p.Amplitude)
		return map[string]float64{"amplitude": stored}, nil

	case "set_waveform":
		var p SetWaveformParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if err := s.engine.SetWaveform(p.Waveform); err != nil {
			return nil, err
		}
		return s.engine.SessionState(), nil

	case "start_session":
		if err := s.engine.StartSession(); err != nil {
			return nil, err
		}
		return s.engine.SessionState(), nil

	case "stop_session":
		if err := s.engine.StopSession(); err != nil {
			return nil, err
		}
		return s.engine.SessionState(), nil

	case "list_audio_hosts":
		return s.engine.Hosts()

	case "list_audio_devices":
		return s.engine.Devices()

	case "get_audio_config":
		return s.engine.AudioConfig(), nil

	case "set_audio_config":
		var p SetAudioConfigParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if err := s.engine.SetAudioConfig(p.DeviceID, p.SampleRate, p.BufferSize); err != nil {
			return nil, err
		}
		return s.engine.AudioConfig(), nil

	case "get_presets":
		return engine.Presets(), nil

	case "get_safety_limits":
		return engine.Limits(), nil

	case "get_disclaimer":
		return engine.Disclaimer(), nil

	case "get_version":
		return map[string]string{
			"version":      version.Version,
			"product":      version.Product,
			"manufacturer": version.Manufacturer,
		}, nil

	case "check_audio_available":
		ok, err := s.engine.AudioAvailable()
		if err != nil {
			return nil, err
		}
		return map[string]bool{"available": ok}, nil

	default:
		return nil, &unknownCommandError{command: req.Command}
	}
}

type unknownCommandError struct {
	command string
}

func (e *unknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %q", e.command)
}

func decodeParams(raw json.RawMessage, into interface{}) error {
	if len(raw) == 0 {
		return &engine.ValidationError{Msg: "missing params"}
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return &engine.ValidationError{Msg: fmt.Sprintf("malformed params: %v", err)}
	}
	return nil
}

func errorCode(err error) string {
	switch {
	case engine.IsValidation(err):
		return CodeValidation
	case engine.IsDeviceError(err):
		return CodeDevice
	default:
		var unknown *unknownCommandError
		if errors.As(err, &unknown) {
			return CodeUnknown
		}
		return CodeInternal
	}
}
