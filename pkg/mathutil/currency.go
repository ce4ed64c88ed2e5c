// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/budget-drilldown/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Cents converts a currency value to a whole number of cents.
func Cents(val float64) int64 {
	return int64(math.Round(val * constants.DecimalPrecision))
}

// FromCents converts a whole number of cents back to a currency value.
func FromCents(cents int64) float64 {
	return float64(cents) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Share returns value as a fraction of total, or 0 for a non-positive total.
func Share(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return value / total
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	return Share(value, total) * constants.PercentageMultiplier
}

// Clamp limits val to [lo, hi]. When lo > hi the lower bound wins.
func Clamp(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}

// Sum adds up a list of values.
func Sum(values ...float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
