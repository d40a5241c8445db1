package button

import "sync"

// Event is the most recent qualifying button edge since the main loop last
// consumed one.
type Event uint8

const (
	None Event = iota
	Primary
	Secondary
)

func (e Event) String() string {
	switch e {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "none"
	}
}

// Classify maps the two channel flags to an event. Edges seen on both
// channels at once are a debounce race and are discarded.
func Classify(primary, secondary bool) Event {
	switch {
	case primary && !secondary:
		return Primary
	case secondary && !primary:
		return Secondary
	default:
		return None
	}
}

// Latch holds a single Event shared between the edge handler and the main
// loop. It does not queue: a second Signal before Take overwrites the first.
type Latch struct {
	mu sync.Mutex
	ev Event
}

// Signal stores ev unconditionally. It never blocks beyond the critical
// section and is safe to call from the edge handler goroutine.
func (l *Latch) Signal(ev Event) {
	l.mu.Lock()
	l.ev = ev
	l.mu.Unlock()
}

// Take returns the stored event. With reset the stored value is cleared to
// None inside the same critical section as the read, so an event is never
// observed by two Take calls and a Signal is never lost between read and reset.
func (l *Latch) Take(reset bool) Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := l.ev
	if reset {
		l.ev = None
	}
	return ev
}
