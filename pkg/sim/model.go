package sim

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/umputun/kibbler/pkg/device"
	"github.com/umputun/kibbler/pkg/input"
	"github.com/umputun/kibbler/pkg/ui"
)

// KeyMap defines the simulator key bindings with built-in help text.
type KeyMap struct {
	TurnCW  key.Binding
	TurnCCW key.Binding
	Press   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		TurnCW: key.NewBinding(
			key.WithKeys("down", "right", "j"),
			key.WithHelp("↓/→", "turn cw"),
		),
		TurnCCW: key.NewBinding(
			key.WithKeys("up", "left", "k"),
			key.WithHelp("↑/←", "turn ccw"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type frameMsg ui.Screen

type feedMsg FeedNotice

type stoppedMsg struct{ err error }

// Params wires the model to the loop it fronts.
type Params struct {
	Device  *device.Device
	Panel   *Panel
	Encoder *input.Encoder
}

// Model is the Bubble Tea model mirroring the feeder front panel.
type Model struct {
	dev   *device.Device
	panel *Panel
	enc   *input.Encoder
	keys  KeyMap

	ctx    context.Context
	cancel context.CancelFunc

	screen   ui.Screen
	lastFeed *FeedNotice
	feeds    int
	err      error
	width    int
	height   int
}

// New creates the model; the device loop starts when Bubble Tea calls Init.
func New(p Params) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		dev:    p.Device,
		panel:  p.Panel,
		enc:    p.Encoder,
		keys:   DefaultKeyMap(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Init starts the device loop and the frame/feed pumps.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.runDevice(), m.waitFrame(), m.waitFeed())
}

func (m *Model) runDevice() tea.Cmd {
	return func() tea.Msg { return stoppedMsg{err: m.dev.Run(m.ctx)} }
}

func (m *Model) waitFrame() tea.Cmd {
	return func() tea.Msg { return frameMsg(<-m.panel.Frames()) }
}

func (m *Model) waitFeed() tea.Cmd {
	return func() tea.Msg { return feedMsg(<-m.panel.Feeds()) }
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.TurnCW):
			m.enc.Edge(true)
			m.dev.Notify()
		case key.Matches(msg, m.keys.TurnCCW):
			m.enc.Edge(false)
			m.dev.Notify()
		case key.Matches(msg, m.keys.Press):
			m.panel.Press()
			m.dev.Notify()
		}

	case frameMsg:
		m.screen = ui.Screen(msg)
		return m, m.waitFrame()

	case feedMsg:
		notice := FeedNotice(msg)
		m.lastFeed = &notice
		m.feeds++
		return m, m.waitFeed()

	case stoppedMsg:
		if msg.err != nil && m.ctx.Err() == nil {
			m.err = msg.err
		}
		return m, tea.Quit
	}

	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))

	oledStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Foreground(lipgloss.Color("11")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// View renders the panel frame, a status line and the key help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("kibbler simulator"))
	b.WriteString("\n\n")

	lines := make([]string, ui.Rows)
	for i := range lines {
		if i < len(m.screen.Lines) {
			lines[i] = m.screen.Lines[i]
		}
		lines[i] = pad(lines[i], ui.Cols)
	}
	b.WriteString(oledStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	b.WriteString(statusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ turn knob · enter press · q quit"))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(fmt.Sprintf("device stopped: %v", m.err)))
	}

	return b.String()
}

func (m *Model) statusLine() string {
	if m.lastFeed == nil {
		return "no feeds this session"
	}
	return fmt.Sprintf("feeds this session: %d · last %s x%d (%s)",
		m.feeds, m.lastFeed.At.Format("15:04:05"), m.lastFeed.Rotations, m.lastFeed.Source)
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
