package runloop

import (
	"context"
	"fmt"
	"time"

	"bubblelevel/internal/button"
	"bubblelevel/internal/level"
	"bubblelevel/internal/tilt"
)

// DefaultHold is how long each frame stays on the display. It also paces
// the loop.
const DefaultHold = 200 * time.Millisecond

// Sensor is a 3-axis accelerometer. A read error is unrecoverable.
type Sensor interface {
	ReadAcceleration() (x, y, z int32, err error)
	DataReady() bool
}

// Display renders a grid and blocks for roughly hold.
type Display interface {
	Show(g level.Grid, hold time.Duration)
}

// Debug is the best-effort text stream.
type Debug interface {
	Printf(format string, args ...any)
}

// Frame is what one iteration computed.
type Frame struct {
	X, Y, Z     int32
	Pitch, Roll float64
	Button      button.Event
	Sense       level.Sense
	UpsideDown  bool
	Bubble      level.Position
	Grid        level.Grid
}

type Loop struct {
	Sensor  Sensor
	Latch   *button.Latch
	Level   *level.Level
	Display Display
	Debug   Debug
	Hold    time.Duration

	// OnFrame, when set, observes every frame after it is shown.
	OnFrame func(Frame)
}

func (l *Loop) validate() error {
	if l == nil {
		return fmt.Errorf("runloop: loop is nil")
	}
	if l.Sensor == nil {
		return fmt.Errorf("runloop: sensor is nil")
	}
	if l.Latch == nil {
		return fmt.Errorf("runloop: latch is nil")
	}
	if l.Level == nil {
		return fmt.Errorf("runloop: level is nil")
	}
	if l.Display == nil {
		return fmt.Errorf("runloop: display is nil")
	}
	return nil
}

// Step runs one iteration: sample, estimate, consume the button latch,
// update the level and show the grid.
func (l *Loop) Step() (Frame, error) {
	if err := l.validate(); err != nil {
		return Frame{}, err
	}

	x, y, z, err := l.Sensor.ReadAcceleration()
	if err != nil {
		return Frame{}, err
	}
	if l.Sensor.DataReady() {
		// Prefer the sample that just landed over the one read above.
		x, y, z, err = l.Sensor.ReadAcceleration()
		if err != nil {
			return Frame{}, err
		}
	}

	pitch, roll := tilt.FromRaw(x, y, z)
	upsideDown := l.Level.NoteOrientation(float64(z))

	prev := l.Level.Position()
	l.debugf("bubble coordinates row and col: %d, %d", prev.Row, prev.Col)

	ev := l.Latch.Take(true)
	if l.Level.HandleButton(ev) {
		s := l.Level.Sense()
		l.debugf("sense mode %d (%s)", s.Readout(), s)
	}

	g := l.Level.Update(pitch, roll)
	l.debugf("pitch and roll: %.4f %.4f", pitch, roll)

	hold := l.Hold
	if hold <= 0 {
		hold = DefaultHold
	}
	l.Display.Show(g, hold)

	f := Frame{
		X: x, Y: y, Z: z,
		Pitch: pitch, Roll: roll,
		Button:     ev,
		Sense:      l.Level.Sense(),
		UpsideDown: upsideDown,
		Bubble:     l.Level.Position(),
		Grid:       g,
	}
	if l.OnFrame != nil {
		l.OnFrame(f)
	}
	return f, nil
}

// Run steps until ctx is canceled or the sensor fails. A sensor failure is
// returned wrapped and is meant to be fatal.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if _, err := l.Step(); err != nil {
			return fmt.Errorf("runloop: sensor read failed: %w", err)
		}
	}
}

func (l *Loop) debugf(format string, args ...any) {
	if l.Debug != nil {
		l.Debug.Printf(format, args...)
	}
}
