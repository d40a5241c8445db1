package level

import "strings"

const (
	GridSize = 5
	MaxIndex = GridSize - 1
)

// Grid is the 5x5 LED matrix, row-major, one byte per LED (0 off, 1 on).
type Grid [GridSize][GridSize]uint8

func (g *Grid) Clear() {
	*g = Grid{}
}

// Set turns on the LED at (row, col). Out-of-range coordinates are ignored.
func (g *Grid) Set(row, col int) {
	if row < 0 || row > MaxIndex || col < 0 || col > MaxIndex {
		return
	}
	g[row][col] = 1
}

// Lit returns the number of LEDs that are on.
func (g Grid) Lit() int {
	n := 0
	for _, row := range g {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// String renders the grid as five lines of '#' (on) and '.' (off).
func (g Grid) String() string {
	var b strings.Builder
	for r, row := range g {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, v := range row {
			if v != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}
