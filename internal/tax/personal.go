package tax

import "github.com/secretMoi/Purefin/pkg/mathutil"

// PersonalParams holds the inputs of the personal income tax computation.
type PersonalParams struct {
	Brackets           Brackets
	ExemptionThreshold float64
	SurtaxMultiplier   float64
}

// Credit is the fixed tax credit granted on the tax-free allowance, taxed at
// the lowest band rate.
func (p PersonalParams) Credit() float64 {
	return p.ExemptionThreshold * p.Brackets.LowestRate()
}

// PersonalTax computes the income tax on taxableIncome. The order is fixed:
// bracket sum, minus the credit, floored at zero, then multiplied by the
// surtax.
func PersonalTax(taxableIncome float64, p PersonalParams) float64 {
	base := Evaluate(taxableIncome, p.Brackets)
	afterCredit := mathutil.NonNegative(base - p.Credit())
	return afterCredit * p.SurtaxMultiplier
}
