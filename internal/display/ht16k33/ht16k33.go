package ht16k33

import (
	"fmt"
	"log"
	"time"

	"bubblelevel/internal/i2c"
	"bubblelevel/internal/level"
)

var sleep = time.Sleep

// HT16K33 LED matrix driver used as the bubble display.
//
// Display RAM is 16 bytes; row r of the 5x5 grid lives in byte 2r and column
// c in bit c of that byte.

const (
	addrDefault = 0x70

	cmdOscillatorOn = 0x21
	cmdDisplayOn    = 0x81 // display on, blink off
	cmdBrightness   = 0xE0
	ramStart        = 0x00
	ramSize         = 16

	maxBrightness = 15
)

type writer interface {
	Write(p []byte) error
}

type Display struct {
	dev writer

	// failures are logged once per streak so a dead display doesn't flood
	// the log at frame rate.
	failing bool
}

func DefaultAddress() uint16 { return addrDefault }

// New turns the oscillator and display on and sets brightness (0..15).
func New(dev *i2c.Dev, brightness int) (*Display, error) {
	if dev == nil {
		return nil, fmt.Errorf("ht16k33: dev is nil")
	}
	return newWithIO(dev, brightness)
}

func newWithIO(dev writer, brightness int) (*Display, error) {
	if dev == nil {
		return nil, fmt.Errorf("ht16k33: dev is nil")
	}
	if brightness < 0 || brightness > maxBrightness {
		return nil, fmt.Errorf("ht16k33: brightness %d out of range 0..%d", brightness, maxBrightness)
	}
	d := &Display{dev: dev}
	for _, cmd := range []byte{cmdOscillatorOn, cmdDisplayOn, cmdBrightness | byte(brightness)} {
		if err := d.dev.Write([]byte{cmd}); err != nil {
			return nil, fmt.Errorf("ht16k33: command 0x%02X failed: %w", cmd, err)
		}
	}
	if err := d.write(level.Grid{}); err != nil {
		return nil, err
	}
	return d, nil
}

// Show writes the grid and holds it for hold. The display is treated as
// infallible by the render loop, so write errors are logged, not returned.
func (d *Display) Show(g level.Grid, hold time.Duration) {
	if err := d.write(g); err != nil {
		if !d.failing {
			log.Printf("ht16k33: %v", err)
		}
		d.failing = true
	} else {
		d.failing = false
	}
	sleep(hold)
}

// Close blanks the matrix.
func (d *Display) Close() error {
	if d == nil || d.dev == nil {
		return nil
	}
	return d.write(level.Grid{})
}

func (d *Display) write(g level.Grid) error {
	if err := d.dev.Write(encode(g)); err != nil {
		return fmt.Errorf("ht16k33: ram write failed: %w", err)
	}
	return nil
}

// encode builds the RAM write: start address followed by 16 data bytes.
func encode(g level.Grid) []byte {
	buf := make([]byte, 1+ramSize)
	buf[0] = ramStart
	for r, row := range g {
		var bits byte
		for c, v := range row {
			if v != 0 {
				bits |= 1 << c
			}
		}
		buf[1+2*r] = bits
	}
	return buf
}
