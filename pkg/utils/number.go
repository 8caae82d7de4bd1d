package utils

import "math"

// RoundWithTwoDecimalPlace rounds revenue totals and index averages
// before they leave the API.
func RoundWithTwoDecimalPlace(f float64) float64 {
	return math.Round(f*100) / 100
}
