// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/secretMoi/Purefin/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance reports whether two values are strictly closer than
// tolerance. A distance equal to the tolerance does not count.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) < tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// NonNegative floors a value at zero. NaN is treated as zero.
func NonNegative(val float64) float64 {
	if math.IsNaN(val) || val < 0 {
		return 0
	}
	return val
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// SafeDivide divides value by divisor, returning zero when the divisor is not
// strictly positive.
func SafeDivide(value, divisor float64) float64 {
	if divisor <= 0 || !IsFinite(divisor) {
		return 0
	}
	return value / divisor
}

// Annualize converts a monthly amount to an annual one.
func Annualize(monthly float64) float64 {
	return monthly * constants.MonthsPerYear
}

// Monthly converts an annual amount to a monthly one.
func Monthly(annual float64) float64 {
	return annual / constants.MonthsPerYear
}
