// Package tax implements progressive marginal-rate schedules and the personal
// income tax built on top of them.
package tax

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBrackets is returned when a schedule breaks its ordering rules.
var ErrInvalidBrackets = errors.New("invalid bracket table")

// Bracket is one band of a progressive schedule. Income between the previous
// band's UpperBound (exclusive) and this UpperBound (inclusive) is taxed at Rate.
type Bracket struct {
	UpperBound float64 `json:"upperBound" yaml:"upperBound"`
	Rate       float64 `json:"rate" yaml:"rate"`
}

// Brackets is an ordered schedule. The last band must be unbounded
// (UpperBound = +Inf).
type Brackets []Bracket

// Validate checks that bounds strictly increase, rates never decrease and stay
// within [0, 1], and that the final band is unbounded.
func (b Brackets) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: at least one band is required", ErrInvalidBrackets)
	}
	previousBound := 0.0
	previousRate := 0.0
	for i, band := range b {
		if math.IsNaN(band.UpperBound) || band.UpperBound <= previousBound {
			return fmt.Errorf("%w: band %d upper bound %v must exceed %v", ErrInvalidBrackets, i, band.UpperBound, previousBound)
		}
		if math.IsNaN(band.Rate) || band.Rate < 0 || band.Rate > 1 {
			return fmt.Errorf("%w: band %d rate %v must lie within [0, 1]", ErrInvalidBrackets, i, band.Rate)
		}
		if band.Rate < previousRate {
			return fmt.Errorf("%w: band %d rate %v is lower than previous rate %v", ErrInvalidBrackets, i, band.Rate, previousRate)
		}
		previousBound = band.UpperBound
		previousRate = band.Rate
	}
	if !math.IsInf(b[len(b)-1].UpperBound, 1) {
		return fmt.Errorf("%w: last band must be unbounded", ErrInvalidBrackets)
	}
	return nil
}

// LowestRate returns the rate of the first band, or 0 for an empty schedule.
func (b Brackets) LowestRate() float64 {
	if len(b) == 0 {
		return 0
	}
	return b[0].Rate
}

// MarginalRate returns the rate applied to the next unit of income above
// income.
func (b Brackets) MarginalRate(income float64) float64 {
	for _, band := range b {
		if income < band.UpperBound {
			return band.Rate
		}
	}
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1].Rate
}

// Evaluate applies the schedule to income: every band taxes only the slice of
// income that falls inside it. Negative or NaN income yields zero.
func Evaluate(income float64, brackets Brackets) float64 {
	if math.IsNaN(income) || income <= 0 {
		return 0
	}

	tax := 0.0
	lower := 0.0
	for _, band := range brackets {
		if income <= lower {
			break
		}
		slice := math.Min(income, band.UpperBound) - lower
		tax += slice * band.Rate
		lower = band.UpperBound
	}
	return tax
}
