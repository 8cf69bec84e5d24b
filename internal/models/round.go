package models

import "github.com/shopspring/decimal"

// Round rounds v half-away-from-zero to the given number of decimal places.
// Wire values carry at most 3 decimals for times and scores and 4 for the
// degradation rate, so the rounding has to be exact rather than a float trick.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
