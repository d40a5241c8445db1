package sim

import (
	"math"
	"time"
)

// Wobble is a scripted accelerometer tracing a slow figure-eight in
// pitch/roll, for running without hardware.
type Wobble struct {
	AmplitudeDeg float64
	Period       time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// Attitude is deterministic in now:
//
//	pitch = A·sin(2πt/T)
//	roll  = A/2·sin(4πt/T)
func (w Wobble) Attitude(now time.Time) (pitchDeg, rollDeg float64) {
	amp := w.AmplitudeDeg
	if amp <= 0 {
		amp = 10
	}
	period := w.Period
	if period <= 0 {
		period = 20 * time.Second
	}
	phase := float64(now.UnixNano()%period.Nanoseconds()) / float64(period.Nanoseconds())
	a := 2 * math.Pi * phase
	return amp * math.Sin(a), amp / 2 * math.Sin(2*a)
}

func (w Wobble) ReadAcceleration() (x, y, z int32, err error) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	p, r := w.Attitude(now())
	x, y, z = Gravity(p, r, false)
	return x, y, z, nil
}

func (w Wobble) DataReady() bool { return true }
