package button

import (
	"sync"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		primary, secondary bool
		want               Event
	}{
		{false, false, None},
		{true, false, Primary},
		{false, true, Secondary},
		{true, true, None},
	}
	for _, tc := range cases {
		if got := Classify(tc.primary, tc.secondary); got != tc.want {
			t.Fatalf("Classify(%v,%v)=%v want %v", tc.primary, tc.secondary, got, tc.want)
		}
	}
}

func TestLatch_TakeResetClears(t *testing.T) {
	var l Latch
	l.Signal(Primary)
	if got := l.Take(true); got != Primary {
		t.Fatalf("first take=%v want primary", got)
	}
	if got := l.Take(true); got != None {
		t.Fatalf("second take=%v want none", got)
	}
}

func TestLatch_TakeWithoutResetKeepsValue(t *testing.T) {
	var l Latch
	l.Signal(Secondary)
	if got := l.Take(false); got != Secondary {
		t.Fatalf("take=%v want secondary", got)
	}
	if got := l.Take(false); got != Secondary {
		t.Fatalf("take again=%v want secondary", got)
	}
}

func TestLatch_LastWriteWins(t *testing.T) {
	var l Latch
	l.Signal(Primary)
	l.Signal(Secondary)
	if got := l.Take(true); got != Secondary {
		t.Fatalf("take=%v want secondary", got)
	}
	if got := l.Take(true); got != None {
		t.Fatalf("take after reset=%v want none", got)
	}
}

// Run with -race: Take and Signal must not race, and the number of events
// observed can never exceed the number signalled.
func TestLatch_ConcurrentSignalAndTake(t *testing.T) {
	var l Latch
	const n = 5000

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < n; i++ {
			l.Signal(Primary)
		}
	}()

	taken := 0
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		if l.Take(true) == Primary {
			taken++
		}
	}
	wg.Wait()
	if l.Take(true) == Primary {
		taken++
	}

	if taken < 1 || taken > n {
		t.Fatalf("taken=%d want 1..%d", taken, n)
	}
	if got := l.Take(true); got != None {
		t.Fatalf("take after drain=%v want none", got)
	}
}

func TestHandler_ServiceClassifiesAndResets(t *testing.T) {
	var reg EventRegister
	var l Latch
	h := NewHandler(&reg, &l)

	reg.Trigger(ChannelPrimary)
	h.Service()
	if reg.Triggered(ChannelPrimary) || reg.Triggered(ChannelSecondary) {
		t.Fatalf("expected both channel flags reset")
	}
	if got := l.Take(true); got != Primary {
		t.Fatalf("latched=%v want primary", got)
	}

	reg.Trigger(ChannelSecondary)
	h.Service()
	if got := l.Take(true); got != Secondary {
		t.Fatalf("latched=%v want secondary", got)
	}
}

func TestHandler_BothChannelsDiscarded(t *testing.T) {
	var reg EventRegister
	var l Latch
	h := NewHandler(&reg, &l)

	l.Signal(Primary)
	reg.Trigger(ChannelPrimary)
	reg.Trigger(ChannelSecondary)
	h.Service()

	if got := l.Take(true); got != None {
		t.Fatalf("latched=%v want none", got)
	}
	if reg.Triggered(ChannelPrimary) || reg.Triggered(ChannelSecondary) {
		t.Fatalf("expected both channel flags reset")
	}
}

func TestEventRegister_IgnoresUnknownChannel(t *testing.T) {
	var reg EventRegister
	reg.Trigger(Channel(7))
	reg.Reset(Channel(-1))
	if reg.Triggered(Channel(7)) {
		t.Fatalf("unknown channel reported triggered")
	}
}

func TestCoalescer_Window(t *testing.T) {
	c := coalescer{window: 20 * time.Millisecond}

	if c.observe(ChannelPrimary, 100*time.Millisecond) {
		t.Fatalf("first edge should not coincide")
	}
	if !c.observe(ChannelSecondary, 110*time.Millisecond) {
		t.Fatalf("edges 10ms apart should coincide")
	}
	if c.observe(ChannelPrimary, 200*time.Millisecond) {
		t.Fatalf("edges 90ms apart should not coincide")
	}
}

func TestCoalescer_ZeroWindowDisabled(t *testing.T) {
	c := coalescer{}
	c.observe(ChannelPrimary, time.Millisecond)
	if c.observe(ChannelSecondary, time.Millisecond) {
		t.Fatalf("zero window should never coincide")
	}
}
