package utils

import "math"

// NormalizeL2 normalizes the slice in place to unit L2 norm and reports whether
// normalization happened. A zero vector is left unchanged and returns false;
// callers that require a unit vector must treat that as a degenerate input.
func NormalizeL2(x []float32) bool {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return false
	}
	norm := float32(1.0 / math.Sqrt(sum))
	for i := range x {
		x[i] *= norm
	}
	return true
}

// L2Norm returns the Euclidean length of a vector.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
