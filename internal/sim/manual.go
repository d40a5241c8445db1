package sim

import "sync"

// MaxTiltDeg bounds the manual tilt on each axis.
const MaxTiltDeg = 90.0

// Manual is an accelerometer whose attitude is set by a caller, e.g. arrow
// keys in the terminal simulator. It is safe for concurrent use.
type Manual struct {
	mu         sync.Mutex
	pitchDeg   float64
	rollDeg    float64
	upsideDown bool
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) Set(pitchDeg, rollDeg float64) {
	m.mu.Lock()
	m.pitchDeg = clampTilt(pitchDeg)
	m.rollDeg = clampTilt(rollDeg)
	m.mu.Unlock()
}

// Nudge adds to the current attitude.
func (m *Manual) Nudge(dPitchDeg, dRollDeg float64) {
	m.mu.Lock()
	m.pitchDeg = clampTilt(m.pitchDeg + dPitchDeg)
	m.rollDeg = clampTilt(m.rollDeg + dRollDeg)
	m.mu.Unlock()
}

// Flip toggles upside down and returns the new state.
func (m *Manual) Flip() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsideDown = !m.upsideDown
	return m.upsideDown
}

// Level resets to flat and right side up.
func (m *Manual) Level() {
	m.mu.Lock()
	m.pitchDeg, m.rollDeg, m.upsideDown = 0, 0, false
	m.mu.Unlock()
}

func (m *Manual) Attitude() (pitchDeg, rollDeg float64, upsideDown bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pitchDeg, m.rollDeg, m.upsideDown
}

func (m *Manual) ReadAcceleration() (x, y, z int32, err error) {
	p, r, u := m.Attitude()
	x, y, z = Gravity(p, r, u)
	return x, y, z, nil
}

func (m *Manual) DataReady() bool { return true }

func clampTilt(v float64) float64 {
	if v > MaxTiltDeg {
		return MaxTiltDeg
	}
	if v < -MaxTiltDeg {
		return -MaxTiltDeg
	}
	return v
}
