package button

import "sync"

// Channel identifies one of the two monitored button lines.
type Channel int

const (
	ChannelPrimary Channel = iota
	ChannelSecondary
)

// EdgeSource exposes per-channel "event triggered" flags, the way a GPIO
// event peripheral does.
type EdgeSource interface {
	Triggered(ch Channel) bool
	Reset(ch Channel)
}

// EventRegister is a software EdgeSource. Backends call Trigger when an edge
// arrives and then run Handler.Service.
type EventRegister struct {
	mu  sync.Mutex
	set [2]bool
}

func (r *EventRegister) Trigger(ch Channel) {
	if ch != ChannelPrimary && ch != ChannelSecondary {
		return
	}
	r.mu.Lock()
	r.set[ch] = true
	r.mu.Unlock()
}

func (r *EventRegister) Triggered(ch Channel) bool {
	if ch != ChannelPrimary && ch != ChannelSecondary {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set[ch]
}

func (r *EventRegister) Reset(ch Channel) {
	if ch != ChannelPrimary && ch != ChannelSecondary {
		return
	}
	r.mu.Lock()
	r.set[ch] = false
	r.mu.Unlock()
}

// Handler is the body of the button edge interrupt. It touches only the edge
// source and the latch.
type Handler struct {
	src   EdgeSource
	latch *Latch

	// serializes Service so classification and flag reset act as one step
	// even if two backends deliver edges concurrently.
	mu sync.Mutex
}

func NewHandler(src EdgeSource, latch *Latch) *Handler {
	return &Handler{src: src, latch: latch}
}

// Service classifies the pending edges, clears both channel flags and stores
// the result in the latch.
func (h *Handler) Service() {
	if h == nil || h.src == nil || h.latch == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	ev := Classify(h.src.Triggered(ChannelPrimary), h.src.Triggered(ChannelSecondary))

	h.src.Reset(ChannelPrimary)
	h.src.Reset(ChannelSecondary)

	h.latch.Signal(ev)
}
