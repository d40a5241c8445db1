//go:build !linux

package button

import "fmt"

type GPIO struct{}

func OpenGPIO(cfg GPIOConfig, reg *EventRegister, h *Handler) (*GPIO, error) {
	return nil, fmt.Errorf("button: gpio unsupported on this platform")
}

func (g *GPIO) Close() error { return nil }
