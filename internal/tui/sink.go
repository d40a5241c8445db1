package tui

import (
	"time"

	"bubblelevel/internal/level"
	"bubblelevel/internal/runloop"

	tea "github.com/charmbracelet/bubbletea"
)

var sleep = time.Sleep

type sender interface {
	Send(msg tea.Msg)
}

// Sink is a runloop.Display that forwards grids to a running tea.Program.
type Sink struct {
	p sender
}

func NewSink(p sender) *Sink {
	return &Sink{p: p}
}

// Show hands the grid to the program and holds for the frame duration.
// Send returns immediately once the program has exited.
func (s *Sink) Show(g level.Grid, hold time.Duration) {
	if s != nil && s.p != nil {
		s.p.Send(GridMsg(g))
	}
	sleep(hold)
}

// Frame is meant for runloop.Loop.OnFrame.
func (s *Sink) Frame(f runloop.Frame) {
	if s == nil || s.p == nil {
		return
	}
	s.p.Send(FrameMsg(f))
}
