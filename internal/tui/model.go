package tui

import (
	"fmt"
	"strings"
	"time"

	"bubblelevel/internal/button"
	"bubblelevel/internal/debug"
	"bubblelevel/internal/level"
	"bubblelevel/internal/runloop"
	"bubblelevel/internal/sim"
	"bubblelevel/internal/tilt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GridMsg carries a grid from the display sink.
type GridMsg level.Grid

// FrameMsg carries the loop's per-frame readings.
type FrameMsg runloop.Frame

// TickMsg refreshes the log panel.
type TickMsg time.Time

const (
	defaultTiltStepDeg = 1.0
	logLines           = 6
)

type Options struct {
	// Tilt is the manual accelerometer driven by arrow keys. Nil when a real
	// sensor is in use.
	Tilt *sim.Manual
	// Register and Handler receive keyboard button presses. Nil disables
	// the a/b/x keys.
	Register *button.EventRegister
	Handler  *button.Handler
	// Tail is shown under the matrix when set.
	Tail *debug.Tail

	TiltStepDeg float64
}

// shared holds pointers so every copy of the value-receiver model sees the
// same collaborators.
type shared struct {
	tilt     *sim.Manual
	register *button.EventRegister
	handler  *button.Handler
	tail     *debug.Tail
}

// Model is the Bubble Tea model for the terminal bubble level.
type Model struct {
	grid     level.Grid
	frame    runloop.Frame
	hasFrame bool
	pressed  string
	stepDeg  float64

	shared *shared
}

func New(opts Options) Model {
	step := opts.TiltStepDeg
	if step <= 0 {
		step = defaultTiltStepDeg
	}
	return Model{
		stepDeg: step,
		shared: &shared{
			tilt:     opts.Tilt,
			register: opts.Register,
			handler:  opts.Handler,
			tail:     opts.Tail,
		},
	}
}

func (m Model) Grid() level.Grid { return m.grid }

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case GridMsg:
		m.grid = level.Grid(msg)
		return m, nil

	case FrameMsg:
		m.frame = runloop.Frame(msg)
		m.hasFrame = true
		return m, nil

	case TickMsg:
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "a", "A":
		m.press("A", button.ChannelPrimary)
	case "b", "B":
		m.press("B", button.ChannelSecondary)
	case "x", "X":
		// Both at once, as a bouncing contact would look.
		m.press("A+B", button.ChannelPrimary, button.ChannelSecondary)

	case "up", "k":
		m.nudge(0, -m.stepDeg)
	case "down", "j":
		m.nudge(0, m.stepDeg)
	case "left", "h":
		m.nudge(-m.stepDeg, 0)
	case "right", "l":
		m.nudge(m.stepDeg, 0)
	case "u", "U":
		if m.shared.tilt != nil {
			m.shared.tilt.Flip()
		}
	case "0", "c":
		if m.shared.tilt != nil {
			m.shared.tilt.Level()
		}
	}
	return m, nil
}

// press plays the role of the GPIO edge interrupt.
func (m *Model) press(label string, chs ...button.Channel) {
	if m.shared.register == nil || m.shared.handler == nil {
		return
	}
	for _, ch := range chs {
		m.shared.register.Trigger(ch)
	}
	m.shared.handler.Service()
	m.pressed = label
}

func (m *Model) nudge(dPitch, dRoll float64) {
	if m.shared.tilt != nil {
		m.shared.tilt.Nudge(dPitch, dRoll)
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("bubble level"))
	b.WriteString("\n")
	b.WriteString(StyleMatrix.Render(renderGrid(m.grid)))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleHelp.Render(m.helpLine()))

	if m.shared.tail != nil {
		lines, _ := m.shared.tail.Snapshot(logLines)
		if len(lines) > 0 {
			b.WriteString("\n")
			b.WriteString(StyleLog.Render(strings.Join(lines, "\n")))
		}
	}
	return b.String()
}

func renderGrid(g level.Grid) string {
	rows := make([]string, 0, level.GridSize)
	for _, row := range g {
		cells := make([]string, 0, level.GridSize)
		for _, v := range row {
			if v != 0 {
				cells = append(cells, StyleLEDOn.Render(glyphOn))
			} else {
				cells = append(cells, StyleLEDOff.Render(glyphOff))
			}
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) statusLine() string {
	if !m.hasFrame {
		return StyleStatus.Render("waiting for first frame")
	}
	f := m.frame
	s := fmt.Sprintf("sense %d (%s)  pitch %+6.1f°  roll %+6.1f°  bubble %d,%d",
		f.Sense.Readout(), f.Sense, tilt.Degrees(f.Pitch), tilt.Degrees(f.Roll), f.Bubble.Row, f.Bubble.Col)
	if m.pressed != "" {
		s += "  last key " + m.pressed
	}
	out := StyleStatus.Render(s)
	if f.UpsideDown {
		out += "  " + StyleWarn.Render("UPSIDE DOWN")
	}
	return out
}

func (m Model) helpLine() string {
	parts := []string{}
	if m.shared.handler != nil {
		parts = append(parts, "a coarse", "b fine", "x both")
	}
	if m.shared.tilt != nil {
		parts = append(parts, "←↑↓→ tilt", "u flip", "0 level")
	}
	parts = append(parts, "q quit")
	return strings.Join(parts, " · ")
}
