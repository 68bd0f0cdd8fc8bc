package utils

import "math"

// Round2 rounds x to 2 decimal places; all stored money values are
// numeric(12,2), so DTO floats get rounded before they reach the database.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
