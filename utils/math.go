// Package utils contains small shared helpers that do not belong to any
// particular geometry or interaction package.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Clamp returns v limited to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Float64AlmostEqual returns whether a and b are within epsilon of each other.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// CycleAngle wraps an angle in radians into (-π, π].
func CycleAngle(ang float64) float64 {
	for ang > math.Pi {
		ang -= 2 * math.Pi
	}
	for ang <= -math.Pi {
		ang += 2 * math.Pi
	}
	return ang
}
