// ABOUTME: Bubbletea model for the session TUI
// ABOUTME: Renders session state and maps keys onto engine operations
package ui

import (
	"fmt"
	"time"

	"github.com/CoherenceCore/coherence-go/internal/engine"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the slice of the engine the TUI drives.
type Controller interface {
	SessionState() engine.SessionState
	SetFrequency(hz float64) error
	SetAmplitude(level float64) float64
	SetWaveform(name string) error
	StartSession() error
	StopSession() error
}

// waveformOrder is the cycle order for the 'w' key.
var waveformOrder = []string{"sine", "square", "triangle", "sawtooth"}

// tickMsg drives periodic state refresh.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model represents the TUI state.
type Model struct {
	ctrl  Controller
	state engine.SessionState
	err   string

	width  int
	height int
}

// NewModel creates a TUI model over ctrl.
func NewModel(ctrl Controller) Model {
	return Model{
		ctrl:  ctrl,
		state: ctrl.SessionState(),
	}
}

// Init starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.state = m.ctrl.SessionState()
		return m, tick()
	}
	return m, nil
}

// handleKey maps keys onto engine operations.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""
	switch msg.String() {
	case "q", "ctrl+c":
		_ = m.ctrl.StopSession()
		return m, tea.Quit
	case " ":
		var err error
		if m.state.IsPlaying {
			err = m.ctrl.StopSession()
		} else {
			err = m.ctrl.StartSession()
		}
		if err != nil {
			m.err = err.Error()
		}
	case "left":
		m.setFrequency(m.state.FrequencyHz - 1)
	case "right":
		m.setFrequency(m.state.FrequencyHz + 1)
	case "up":
		m.ctrl.SetAmplitude(m.state.Amplitude + 0.05)
	case "down":
		m.ctrl.SetAmplitude(m.state.Amplitude - 0.05)
	case "w":
		if err := m.ctrl.SetWaveform(nextWaveform(m.state.Waveform)); err != nil {
			m.err = err.Error()
		}
	}

	m.state = m.ctrl.SessionState()
	return m, nil
}

// setFrequency clamps at the envelope edges instead of surfacing a
// validation error for every held arrow key.
func (m *Model) setFrequency(hz float64) {
	if hz < engine.MinFrequency {
		hz = engine.MinFrequency
	}
	if hz > engine.MaxFrequency {
		hz = engine.MaxFrequency
	}
	if err := m.ctrl.SetFrequency(hz); err != nil {
		m.err = err.Error()
	}
}

func nextWaveform(current string) string {
	for i, w := range waveformOrder {
		if w == current {
			return waveformOrder[(i+1)%len(waveformOrder)]
		}
	}
	return waveformOrder[0]
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderSession()
	s += m.renderHelp()
	return s
}

func (m Model) renderHeader() string {
	status := "Idle"
	if m.state.IsPlaying {
		status = "Playing"
	}
	return fmt.Sprintf(`┌─ CoherenceCore ──────────────────────────────────────┐
│ Status: %-45s│
├──────────────────────────────────────────────────────┤
`, status)
}

func (m Model) renderSession() string {
	ampBar := renderBar(int(m.state.Amplitude*100), int(engine.MaxAmplitude*100), 10)
	total := engine.MaxSessionDuration.Milliseconds()
	timeBar := renderBar(int(m.state.RemainingMs/1000), int(total/1000), 20)

	s := fmt.Sprintf("│ Frequency: %5.1f Hz%-34s│\n", m.state.FrequencyHz, "")
	s += fmt.Sprintf("│ Waveform:  %-42s│\n", m.state.Waveform)
	s += fmt.Sprintf("│ Amplitude: [%s] %.2f%-26s│\n", ampBar, m.state.Amplitude, "")
	s += fmt.Sprintf("│ Remaining: [%s] %s%-15s│\n", timeBar, formatMs(m.state.RemainingMs), "")
	if m.err != "" {
		s += fmt.Sprintf("│ Error: %-46s│\n", truncate(m.err, 46))
	}
	return s
}

func (m Model) renderHelp() string {
	return `├──────────────────────────────────────────────────────┤
│ space:Start/Stop  ←/→:Freq  ↑/↓:Amp  w:Wave  q:Quit  │
└──────────────────────────────────────────────────────┘
`
}

// Utility functions
func renderBar(value, max, width int) string {
	if max <= 0 {
		max = 1
	}
	filled := (value * width) / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func formatMs(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}
