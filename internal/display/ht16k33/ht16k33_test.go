package ht16k33

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"bubblelevel/internal/level"
)

type fakeDev struct {
	writes [][]byte
	err    error
}

func (f *fakeDev) Write(p []byte) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, append([]byte(nil), p...))
	return nil
}

func stubSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	old := sleep
	sleep = func(d time.Duration) { slept = append(slept, d) }
	t.Cleanup(func() { sleep = old })
	return &slept
}

func TestNew_InitSequence(t *testing.T) {
	f := &fakeDev{}
	if _, err := newWithIO(f, 8); err != nil {
		t.Fatalf("newWithIO: %v", err)
	}
	if len(f.writes) != 4 {
		t.Fatalf("writes=%d want 4", len(f.writes))
	}
	want := [][]byte{{0x21}, {0x81}, {0xE8}}
	for i, w := range want {
		if !bytes.Equal(f.writes[i], w) {
			t.Fatalf("write[%d]=% X want % X", i, f.writes[i], w)
		}
	}
	if !bytes.Equal(f.writes[3], make([]byte, 17)) {
		t.Fatalf("initial frame=% X want blank", f.writes[3])
	}
}

func TestNew_BrightnessRange(t *testing.T) {
	for _, b := range []int{-1, 16} {
		if _, err := newWithIO(&fakeDev{}, b); err == nil {
			t.Fatalf("brightness %d: expected error", b)
		}
	}
}

func TestNew_WriteError(t *testing.T) {
	if _, err := newWithIO(&fakeDev{err: errors.New("nack")}, 15); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEncode(t *testing.T) {
	var g level.Grid
	g.Set(0, 0)
	g.Set(2, 4)
	g.Set(4, 1)

	got := encode(g)
	want := make([]byte, 17)
	want[1] = 0x01
	want[5] = 0x10
	want[9] = 0x02
	if !bytes.Equal(got, want) {
		t.Fatalf("encode=% X want % X", got, want)
	}
}

func TestShow_WritesAndHolds(t *testing.T) {
	slept := stubSleep(t)
	f := &fakeDev{}
	d, err := newWithIO(f, 15)
	if err != nil {
		t.Fatalf("newWithIO: %v", err)
	}

	var g level.Grid
	g.Set(2, 2)
	d.Show(g, 200*time.Millisecond)

	last := f.writes[len(f.writes)-1]
	if last[5] != 0x04 {
		t.Fatalf("row 2 byte=0x%02X want 0x04", last[5])
	}
	if len(*slept) != 1 || (*slept)[0] != 200*time.Millisecond {
		t.Fatalf("slept=%v want [200ms]", *slept)
	}
}

func TestShow_ErrorStillHolds(t *testing.T) {
	slept := stubSleep(t)
	f := &fakeDev{}
	d, err := newWithIO(f, 15)
	if err != nil {
		t.Fatalf("newWithIO: %v", err)
	}
	f.err = errors.New("bus gone")

	d.Show(level.Grid{}, time.Millisecond)
	d.Show(level.Grid{}, time.Millisecond)
	if !d.failing {
		t.Fatalf("expected failing state")
	}
	if len(*slept) != 2 {
		t.Fatalf("slept=%v want two holds", *slept)
	}

	f.err = nil
	d.Show(level.Grid{}, time.Millisecond)
	if d.failing {
		t.Fatalf("expected recovery")
	}
}
