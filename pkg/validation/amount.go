package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/secretMoi/Purefin/pkg/constants"
)

// ErrInvalidInput marks a monetary input that is negative, not finite or
// larger than constants.MaxAmount.
var ErrInvalidInput = errors.New("invalid input")

// Amount is a named monetary value awaiting validation.
type Amount struct {
	Field string
	Value float64
}

// ValidateAmount rejects negative, NaN, infinite and oversized values.
func ValidateAmount(field string, value float64) error {
	switch {
	case math.IsNaN(value):
		return fmt.Errorf("%w: %s is not a number", ErrInvalidInput, field)
	case math.IsInf(value, 0):
		return fmt.Errorf("%w: %s must be finite", ErrInvalidInput, field)
	case value < 0:
		return fmt.Errorf("%w: %s must not be negative, got %.2f", ErrInvalidInput, field, value)
	case value > constants.MaxAmount:
		return fmt.Errorf("%w: %s must not exceed %.0f, got %g", ErrInvalidInput, field, float64(constants.MaxAmount), value)
	}
	return nil
}

// ValidateAmounts validates each amount in order and joins every failure.
func ValidateAmounts(amounts []Amount) error {
	var errs []error
	for _, amount := range amounts {
		if err := ValidateAmount(amount.Field, amount.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ValidateDaysWorked checks the divisor used for daily rates. Zero is allowed
// and yields a zero rate downstream.
func ValidateDaysWorked(days float64) error {
	if math.IsNaN(days) || math.IsInf(days, 0) || days < 0 {
		return fmt.Errorf("%w: daysWorked must be a non-negative number, got %v", ErrInvalidInput, days)
	}
	if days > 366 {
		return fmt.Errorf("%w: daysWorked cannot exceed 366, got %v", ErrInvalidInput, days)
	}
	return nil
}
