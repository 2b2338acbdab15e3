package shadow

import (
	gomath "math"

	"github.com/Faultbox/midgard-pssm/pkg/math"
)

// Split count limits accepted by NewRig.
const (
	MinSplits = 1
	MaxSplits = 8
)

// minSplitDepth keeps consecutive boundaries strictly increasing when the
// caller passes a collapsed depth range.
const minSplitDepth float32 = 1e-3

// minNear keeps the logarithmic term defined for a zero near plane.
const minNear float32 = 1e-4

// ComputeSplits returns numSplits+1 strictly increasing view-depth
// boundaries. The first is near, the last is min(far, maxDistance).
//
// logFactor blends the linear distribution (0) with the logarithmic one (1)
// and is clamped to that range.
func ComputeSplits(near, far, maxDistance float32, numSplits int, logFactor float32) []float32 {
	if numSplits < 1 {
		numSplits = 1
	}
	out := make([]float32, numSplits+1)
	computeSplitsInto(out, near, far, maxDistance, logFactor)
	return out
}

// computeSplitsInto fills dst (len = splits+1) without allocating.
func computeSplitsInto(dst []float32, near, far, maxDistance, logFactor float32) {
	n := len(dst) - 1
	near = max(near, minNear)
	farEff := far
	if maxDistance > 0 && maxDistance < farEff {
		farEff = maxDistance
	}
	// Strictly increasing boundaries take precedence over maxDistance.
	if farEff < near+minSplitDepth*float32(n) {
		farEff = near + minSplitDepth*float32(n)
	}
	f := float64(math.Clamp(logFactor, 0, 1))
	nearD, farD := float64(near), float64(farEff)

	dst[0] = near
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		linear := nearD + (farD-nearD)*t
		logarithmic := nearD * gomath.Pow(farD/nearD, t)
		dst[i] = float32(f*logarithmic + (1-f)*linear)
	}
	dst[n] = farEff
}
