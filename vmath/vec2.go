package vmath

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Distance returns Euclidean distance between a and b
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// ClampMagnitude limits v to maxMag while preserving direction
// Zero vectors and vectors already within bounds are returned unchanged
func ClampMagnitude(v r2.Vec, maxMag float64) r2.Vec {
	mag := r2.Norm(v)
	if mag <= maxMag || mag == 0 {
		return v
	}
	return r2.Scale(maxMag/mag, v)
}

// Lerp linearly interpolates from a to b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
