package sim

import "math"

// oneG is the simulated gravity magnitude in milli-g.
const oneG = 1000.0

// Gravity returns the acceleration vector (milli-g) a board at the given
// pitch and roll would measure, such that tilt.Estimate recovers the angles.
//
// With x = sin(pitch), y = sin(roll) and z = sqrt(1 - x² - y²):
//
//	atan2(x, sqrt(y²+z²)) = atan2(sin p, cos p) = p
//
// and the same for roll. When sin²p + sin²r > 1 no such unit vector exists
// and z saturates at 0. upsideDown flips the sign of z, which leaves both
// angles unchanged.
func Gravity(pitchDeg, rollDeg float64, upsideDown bool) (x, y, z int32) {
	sx := math.Sin(pitchDeg * math.Pi / 180)
	sy := math.Sin(rollDeg * math.Pi / 180)
	zz := 1 - sx*sx - sy*sy
	if zz < 0 {
		zz = 0
	}
	sz := math.Sqrt(zz)
	if upsideDown {
		sz = -sz
	}
	return int32(math.Round(sx * oneG)), int32(math.Round(sy * oneG)), int32(math.Round(sz * oneG))
}
