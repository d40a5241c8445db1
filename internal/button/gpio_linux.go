//go:build linux

package button

import (
	"fmt"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// GPIO watches the two button lines and feeds edges into an EventRegister.
// gpiocdev delivers events for one request on a single goroutine, which plays
// the role of the interrupt context.
type GPIO struct {
	chip  *gpiocdev.Chip
	lines *gpiocdev.Lines

	reg     *EventRegister
	handler *Handler

	offsets [2]int
	co      coalescer
}

// OpenGPIO requests both lines as pulled-up inputs with falling-edge
// detection. Close releases them.
func OpenGPIO(cfg GPIOConfig, reg *EventRegister, h *Handler) (*GPIO, error) {
	if reg == nil || h == nil {
		return nil, fmt.Errorf("button: register and handler are required")
	}
	chipName := strings.TrimSpace(cfg.Chip)
	if chipName == "" {
		chipName = "gpiochip0"
	}
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer("bubblelevel"))
	if err != nil {
		return nil, fmt.Errorf("button: open chip %s: %w", chipName, err)
	}

	g := &GPIO{chip: chip, reg: reg, handler: h, co: coalescer{window: cfg.Coincidence}}

	for i, name := range []string{cfg.PrimaryLine, cfg.SecondaryLine} {
		offset, err := chip.FindLine(name)
		if err != nil {
			_ = chip.Close()
			return nil, fmt.Errorf("button: gpio line %q not found on %s: %w", name, chipName, err)
		}
		g.offsets[i] = offset
	}

	opts := []gpiocdev.LineReqOption{
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(g.onEvent),
	}
	if cfg.Debounce > 0 {
		opts = append(opts, gpiocdev.WithDebounce(cfg.Debounce))
	}
	lines, err := chip.RequestLines(g.offsets[:], opts...)
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("button: request lines: %w", err)
	}
	g.lines = lines
	return g, nil
}

func (g *GPIO) onEvent(evt gpiocdev.LineEvent) {
	var ch Channel
	switch evt.Offset {
	case g.offsets[ChannelPrimary]:
		ch = ChannelPrimary
	case g.offsets[ChannelSecondary]:
		ch = ChannelSecondary
	default:
		return
	}
	g.reg.Trigger(ch)
	if g.co.observe(ch, evt.Timestamp) {
		g.reg.Trigger(1 - ch)
	}
	g.handler.Service()
}

func (g *GPIO) Close() error {
	if g == nil {
		return nil
	}
	var err error
	if g.lines != nil {
		err = g.lines.Close()
		g.lines = nil
	}
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err
}
