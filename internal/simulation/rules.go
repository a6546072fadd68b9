package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/secretMoi/Purefin/internal/tax"
)

// ErrInvalidRules is returned by New when a rule table is inconsistent.
var ErrInvalidRules = errors.New("invalid rules")

// BenefitInKind holds the flat annual amounts added to the contribution base
// when the matching company-paid expense is present.
type BenefitInKind struct {
	Car      float64
	Phone    float64
	Internet float64
}

// Rules is the complete constant table of the fiscal model. Changing the
// model means changing DefaultRules; nothing reads rates from elsewhere.
type Rules struct {
	BenefitInKind BenefitInKind

	SocialContributionRate    float64
	SocialContributionCeiling float64
	AdminSurcharge            float64

	ProfessionalExpenseRate float64
	ProfessionalExpenseCap  float64

	PersonalBrackets   tax.Brackets
	ExemptionThreshold float64
	SurtaxMultiplier   float64

	RestaurantDeductibleShare float64

	CorpMinimumSalary float64
	CorpBreakpoint    float64
	CorpReducedRate   float64
	CorpStandardRate  float64
}

// DefaultRules returns the rule set used by every caller of the package level
// Calculate.
func DefaultRules() Rules {
	return Rules{
		BenefitInKind: BenefitInKind{
			Car:      1500,
			Phone:    48,
			Internet: 60,
		},

		SocialContributionRate:    0.205,
		SocialContributionCeiling: 72810,
		AdminSurcharge:            1.0305,

		ProfessionalExpenseRate: 0.03,
		ProfessionalExpenseCap:  2990,

		PersonalBrackets: tax.Brackets{
			{UpperBound: 15200, Rate: 0.25},
			{UpperBound: 26830, Rate: 0.40},
			{UpperBound: 46440, Rate: 0.45},
			{UpperBound: math.Inf(1), Rate: 0.50},
		},
		ExemptionThreshold: 10160,
		SurtaxMultiplier:   1.07,

		RestaurantDeductibleShare: 0.69,

		CorpMinimumSalary: 45000,
		CorpBreakpoint:    100000,
		CorpReducedRate:   0.20,
		CorpStandardRate:  0.25,
	}
}

// Validate checks rates, multipliers and the personal bracket table.
func (r Rules) Validate() error {
	if err := r.PersonalBrackets.Validate(); err != nil {
		return fmt.Errorf("%w: personal brackets: %w", ErrInvalidRules, err)
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"socialContributionRate", r.SocialContributionRate},
		{"professionalExpenseRate", r.ProfessionalExpenseRate},
		{"restaurantDeductibleShare", r.RestaurantDeductibleShare},
		{"corpReducedRate", r.CorpReducedRate},
		{"corpStandardRate", r.CorpStandardRate},
	}
	for _, rate := range rates {
		if math.IsNaN(rate.value) || rate.value < 0 || rate.value > 1 {
			return fmt.Errorf("%w: %s %v must lie within [0, 1]", ErrInvalidRules, rate.name, rate.value)
		}
	}

	if r.AdminSurcharge < 1 || r.SurtaxMultiplier < 1 {
		return fmt.Errorf("%w: surcharge multipliers must be at least 1", ErrInvalidRules)
	}
	if r.CorpReducedRate > r.CorpStandardRate {
		return fmt.Errorf("%w: reduced corporate rate %v exceeds standard rate %v", ErrInvalidRules, r.CorpReducedRate, r.CorpStandardRate)
	}

	amounts := []struct {
		name  string
		value float64
	}{
		{"benefitInKind.car", r.BenefitInKind.Car},
		{"benefitInKind.phone", r.BenefitInKind.Phone},
		{"benefitInKind.internet", r.BenefitInKind.Internet},
		{"socialContributionCeiling", r.SocialContributionCeiling},
		{"professionalExpenseCap", r.ProfessionalExpenseCap},
		{"exemptionThreshold", r.ExemptionThreshold},
		{"corpMinimumSalary", r.CorpMinimumSalary},
		{"corpBreakpoint", r.CorpBreakpoint},
	}
	for _, amount := range amounts {
		if math.IsNaN(amount.value) || amount.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidRules, amount.name)
		}
	}

	return nil
}

func (r Rules) personalTax() tax.PersonalParams {
	return tax.PersonalParams{
		Brackets:           r.PersonalBrackets,
		ExemptionThreshold: r.ExemptionThreshold,
		SurtaxMultiplier:   r.SurtaxMultiplier,
	}
}

func (r Rules) clone() Rules {
	out := r
	out.PersonalBrackets = append(tax.Brackets(nil), r.PersonalBrackets...)
	return out
}
