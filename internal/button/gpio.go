package button

import "time"

// GPIOConfig selects the two button lines on a GPIO character device.
type GPIOConfig struct {
	// Chip is a gpiochip name or path, e.g. "gpiochip0".
	Chip string
	// Line names, e.g. "GPIO5". Buttons pull the line low when pressed.
	PrimaryLine   string
	SecondaryLine string
	// Debounce is applied by the kernel when non-zero.
	Debounce time.Duration
	// Edges on the two channels closer together than Coincidence are treated
	// as simultaneous and classify to None.
	Coincidence time.Duration
}

// coalescer marks the other channel as triggered when its last edge falls
// inside the coincidence window of the current one.
type coalescer struct {
	window time.Duration
	last   [2]time.Duration
	seen   [2]bool
}

// observe records an edge on ch at timestamp ts and reports whether the other
// channel should be treated as having fired at the same time.
func (c *coalescer) observe(ch Channel, ts time.Duration) bool {
	if ch != ChannelPrimary && ch != ChannelSecondary {
		return false
	}
	other := ChannelSecondary
	if ch == ChannelSecondary {
		other = ChannelPrimary
	}
	c.last[ch] = ts
	c.seen[ch] = true
	if c.window <= 0 || !c.seen[other] {
		return false
	}
	d := ts - c.last[other]
	if d < 0 {
		d = -d
	}
	return d <= c.window
}
