package services

import "math"

// round2 rounds a monetary amount to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// float64Ptr returns a pointer to v.
func float64Ptr(v float64) *float64 {
	return &v
}
