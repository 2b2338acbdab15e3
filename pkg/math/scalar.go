package math

import "math"

// Clamp limits x to the range [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Abs returns the absolute value of a float32.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// SnapTo rounds x to the nearest multiple of step.
// A non-positive step leaves x unchanged.
func SnapTo(x, step float32) float32 {
	if step <= 0 {
		return x
	}
	return float32(math.Round(float64(x)/float64(step))) * step
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}
