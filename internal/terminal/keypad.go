// Package terminal provides a keypad drawn in the terminal. Terminals report
// keystrokes but not key releases, so each pad latches: one stroke presses
// it, the next releases it.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/PixPMusic/gopher-keypad/internal/keypad"
)

const edgeBuffer = 64

// padKeys lists the keyboard key for each slot, top-left first
var padKeys = [keypad.NumKeys]string{
	"1", "2", "3", "4",
	"q", "w", "e", "r",
	"a", "s", "d", "f",
	"z", "x", "c", "v",
}

var (
	docStyle = lipgloss.NewStyle().Padding(1, 2, 1, 2)

	titleStyle = lipgloss.NewStyle().Bold(true)

	padStyle = lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(5).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("240"))

	heldBorder = lipgloss.Color("229")
	idleFill   = lipgloss.Color("#282828")
)

type mapping struct {
	Release key.Binding
	Quit    key.Binding
}

var defaultMapping = mapping{
	Release: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "release all"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", tea.KeyCtrlC.String()),
		key.WithHelp("esc", "quit"),
	),
}

type ledMsg struct {
	slot  int
	color keypad.Color
}

type model struct {
	title  string
	colors [keypad.NumKeys]keypad.Color
	held   [keypad.NumKeys]bool
	edges  chan<- keypad.KeyEdge
	help   help.Model
	log    logrus.FieldLogger
}

func slotOf(k string) (int, bool) {
	for slot, pk := range padKeys {
		if pk == k {
			return slot, true
		}
	}
	return 0, false
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ledMsg:
		m.colors[msg.slot] = msg.color
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultMapping.Quit):
			return m, tea.Quit
		case key.Matches(msg, defaultMapping.Release):
			for slot, held := range m.held {
				if held {
					m.emit(slot, false)
				}
			}
		default:
			if slot, ok := slotOf(strings.ToLower(msg.String())); ok {
				m.emit(slot, !m.held[slot])
			}
		}
	}
	return m, nil
}

func (m *model) emit(slot int, pressed bool) {
	edge := keypad.KeyEdge{Slot: slot, Edge: keypad.Released}
	if pressed {
		edge.Edge = keypad.Pressed
	}
	select {
	case m.edges <- edge:
		m.held[slot] = pressed
	default:
		m.log.WithField("slot", slot).Warn("key queue full, dropping edge")
	}
}

func hex(c keypad.Color) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func (m model) View() string {
	doc := strings.Builder{}
	doc.WriteString(titleStyle.Render(m.title) + "\n\n")

	rows := make([]string, 0, 4)
	for row := 0; row < 4; row++ {
		cells := make([]string, 0, 4)
		for col := 0; col < 4; col++ {
			slot := row*4 + col
			style := padStyle.Background(idleFill)
			if c := m.colors[slot]; c != keypad.Off {
				style = style.Background(hex(c))
			}
			if m.held[slot] {
				style = style.BorderForeground(heldBorder).Bold(true)
			}
			cells = append(cells, style.Render(padKeys[slot]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	doc.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	doc.WriteString("\n\n" + m.help.ShortHelpView([]key.Binding{defaultMapping.Release, defaultMapping.Quit}))
	return docStyle.Render(doc.String())
}

// Keypad runs the terminal UI and exposes it as key input and LED output
type Keypad struct {
	prog  *tea.Program
	edges chan keypad.KeyEdge
	log   logrus.FieldLogger
}

// New builds the terminal keypad; nothing is drawn until Run
func New(title string, log logrus.FieldLogger) *Keypad {
	if log == nil {
		log = logrus.StandardLogger()
	}
	k := &Keypad{
		edges: make(chan keypad.KeyEdge, edgeBuffer),
		log:   log,
	}
	k.prog = tea.NewProgram(model{
		title: title,
		edges: k.edges,
		help:  help.New(),
		log:   log,
	}, tea.WithAltScreen())
	return k
}

// Run draws the keypad until the user quits
func (k *Keypad) Run() error {
	_, err := k.prog.Run()
	return keypad.TransportError(err, "terminal keypad")
}

// Quit stops Run
func (k *Keypad) Quit() {
	k.prog.Send(tea.Quit())
}

// Poll drains the pad presses since the last call
func (k *Keypad) Poll() ([]keypad.KeyEdge, error) {
	var out []keypad.KeyEdge
	for {
		select {
		case e := <-k.edges:
			out = append(out, e)
		default:
			return out, nil
		}
	}
}

// Apply repaints one pad
func (k *Keypad) Apply(slot int, c keypad.Color) error {
	if slot < 0 || slot >= keypad.NumKeys {
		return keypad.ConfigError("slot %d out of range", slot)
	}
	k.prog.Send(ledMsg{slot: slot, color: c})
	return nil
}
