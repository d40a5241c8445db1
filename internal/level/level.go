package level

import (
	"math"

	"bubblelevel/internal/button"
)

const (
	CenterRow = 2
	CenterCol = 2

	// Scales map radians to pixels. Coarse covers roughly ±500 mG across the
	// matrix, Fine roughly ±50 mG.
	DefaultScaleCoarse = 6.0
	DefaultScaleFine   = 60.0
)

// Sense is the display sensitivity.
type Sense uint8

const (
	Coarse Sense = iota
	Fine
)

func (s Sense) String() string {
	if s == Fine {
		return "fine"
	}
	return "coarse"
}

// Readout is the numeric sense indicator shown on the debug stream.
func (s Sense) Readout() int {
	if s == Fine {
		return 2
	}
	return 1
}

// Mode selects how the bubble follows the tilt.
type Mode uint8

const (
	// Continuous places the bubble at the clamped target every frame.
	Continuous Mode = iota
	// Discrete steps the bubble at most one cell per axis per frame toward
	// the clamped target.
	Discrete
)

func (m Mode) String() string {
	if m == Discrete {
		return "discrete"
	}
	return "continuous"
}

// Position is the lit bubble cell. Row and Col stay within [0, MaxIndex].
type Position struct {
	Row int
	Col int
}

type Config struct {
	Mode  Mode
	Sense Sense

	// Zero means the default scale.
	ScaleCoarse float64
	ScaleFine   float64

	// RowSign and ColSign account for how the board is mounted. Zero means +1.
	RowSign int
	ColSign int

	// SuppressUpsideDown blanks the display while the board is upside down.
	SuppressUpsideDown bool
}

// Level is the bubble level state machine. It is not safe for concurrent
// use; the render loop owns it.
type Level struct {
	cfg    Config
	grid   Grid
	bubble Position
	sense  Sense

	upsideDown bool
}

func New(cfg Config) *Level {
	if cfg.ScaleCoarse <= 0 {
		cfg.ScaleCoarse = DefaultScaleCoarse
	}
	if cfg.ScaleFine <= 0 {
		cfg.ScaleFine = DefaultScaleFine
	}
	if cfg.RowSign >= 0 {
		cfg.RowSign = 1
	} else {
		cfg.RowSign = -1
	}
	if cfg.ColSign >= 0 {
		cfg.ColSign = 1
	} else {
		cfg.ColSign = -1
	}
	return &Level{
		cfg:    cfg,
		bubble: Position{Row: CenterRow, Col: CenterCol},
		sense:  cfg.Sense,
	}
}

func (l *Level) Position() Position { return l.bubble }

func (l *Level) Sense() Sense { return l.sense }

func (l *Level) Mode() Mode { return l.cfg.Mode }

func (l *Level) UpsideDown() bool { return l.upsideDown }

// Render returns the most recently computed grid.
func (l *Level) Render() Grid { return l.grid }

// Scale returns the pixels-per-radian factor for the current sense.
func (l *Level) Scale() float64 {
	if l.sense == Fine {
		return l.cfg.ScaleFine
	}
	return l.cfg.ScaleCoarse
}

// HandleButton applies a button event: Primary selects Coarse, Secondary
// selects Fine. Repeating a press is a no-op. It reports whether the sense
// changed.
func (l *Level) HandleButton(ev button.Event) bool {
	prev := l.sense
	switch ev {
	case button.Primary:
		l.sense = Coarse
	case button.Secondary:
		l.sense = Fine
	}
	return l.sense != prev
}

// NoteOrientation records whether the board is upside down, which is the
// case exactly when the vertical acceleration component is negative.
func (l *Level) NoteOrientation(z float64) bool {
	l.upsideDown = z < 0
	return l.upsideDown
}

// Update maps a tilt reading to the bubble cell and returns the new grid.
// Roll drives the row, pitch drives the column.
func (l *Level) Update(pitch, roll float64) Grid {
	l.grid.Clear()
	if l.cfg.SuppressUpsideDown && l.upsideDown {
		return l.grid
	}

	scale := l.Scale()
	target := Position{
		Row: clampIndex(math.Round(float64(l.cfg.RowSign)*roll*scale) + CenterRow),
		Col: clampIndex(math.Round(float64(l.cfg.ColSign)*pitch*scale) + CenterCol),
	}

	if l.cfg.Mode == Discrete {
		l.bubble = Position{
			Row: stepToward(l.bubble.Row, target.Row),
			Col: stepToward(l.bubble.Col, target.Col),
		}
	} else {
		l.bubble = target
	}

	l.grid.Set(l.bubble.Row, l.bubble.Col)
	return l.grid
}

// clampIndex saturates v to [0, MaxIndex]. NaN saturates to 0.
func clampIndex(v float64) int {
	if !(v > 0) {
		return 0
	}
	if v >= MaxIndex {
		return MaxIndex
	}
	return int(v)
}

func stepToward(cur, target int) int {
	switch {
	case cur < target:
		return cur + 1
	case cur > target:
		return cur - 1
	default:
		return cur
	}
}
