package tilt

import "math"

// Estimate converts one acceleration sample into pitch and roll in radians.
//
//	pitch = atan2(x, sqrt(y² + z²))
//	roll  = atan2(y, sqrt(x² + z²))
//
// Units don't matter since only ratios reach atan2. An all-zero sample
// yields (0, 0).
func Estimate(x, y, z float64) (pitch, roll float64) {
	pitch = math.Atan2(x, math.Sqrt(y*y+z*z))
	roll = math.Atan2(y, math.Sqrt(x*x+z*z))
	return pitch, roll
}

// FromRaw is Estimate for integer sensor readings (e.g. milli-g).
func FromRaw(x, y, z int32) (pitch, roll float64) {
	return Estimate(float64(x), float64(y), float64(z))
}

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

func Radians(deg float64) float64 { return deg * math.Pi / 180 }
