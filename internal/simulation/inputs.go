// Package simulation implements the forward fiscal calculation: from a set of
// company revenue and expense inputs to corporate tax, social contributions,
// personal income tax and net income.
package simulation

import (
	"math"

	"github.com/secretMoi/Purefin/pkg/constants"
	"github.com/secretMoi/Purefin/pkg/validation"
)

// Inputs is the SimulationInputs record. Monetary fields are euros; the
// Monthly fields are annualized by the calculator.
type Inputs struct {
	Revenue             float64 `json:"revenue" yaml:"revenue" mapstructure:"revenue"`
	GrossSalaryMonthly  float64 `json:"grossSalaryMonthly" yaml:"grossSalaryMonthly" mapstructure:"grossSalaryMonthly"`
	InsuranceAnnual     float64 `json:"insuranceAnnual" yaml:"insuranceAnnual" mapstructure:"insuranceAnnual"`
	PhoneMonthly        float64 `json:"phoneMonthly" yaml:"phoneMonthly" mapstructure:"phoneMonthly"`
	InternetMonthly     float64 `json:"internetMonthly" yaml:"internetMonthly" mapstructure:"internetMonthly"`
	CarMonthly          float64 `json:"carMonthly" yaml:"carMonthly" mapstructure:"carMonthly"`
	MealVouchersMonthly float64 `json:"mealVouchersMonthly" yaml:"mealVouchersMonthly" mapstructure:"mealVouchersMonthly"`
	RestaurantMonthly   float64 `json:"restaurantMonthly" yaml:"restaurantMonthly" mapstructure:"restaurantMonthly"`
	PensionAnnual       float64 `json:"pensionAnnual" yaml:"pensionAnnual" mapstructure:"pensionAnnual"`
	OtherAnnual         float64 `json:"otherAnnual" yaml:"otherAnnual" mapstructure:"otherAnnual"`
}

// Amounts lists every field with its wire name, in declaration order.
func (in Inputs) Amounts() []validation.Amount {
	return []validation.Amount{
		{Field: "revenue", Value: in.Revenue},
		{Field: "grossSalaryMonthly", Value: in.GrossSalaryMonthly},
		{Field: "insuranceAnnual", Value: in.InsuranceAnnual},
		{Field: "phoneMonthly", Value: in.PhoneMonthly},
		{Field: "internetMonthly", Value: in.InternetMonthly},
		{Field: "carMonthly", Value: in.CarMonthly},
		{Field: "mealVouchersMonthly", Value: in.MealVouchersMonthly},
		{Field: "restaurantMonthly", Value: in.RestaurantMonthly},
		{Field: "pensionAnnual", Value: in.PensionAnnual},
		{Field: "otherAnnual", Value: in.OtherAnnual},
	}
}

// Validate reports every negative, non-finite or oversized field. The returned error
// wraps validation.ErrInvalidInput.
func (in Inputs) Validate() error {
	return validation.ValidateAmounts(in.Amounts())
}

// Clamped returns a copy where negative, NaN and infinite fields are zero and
// fields above constants.MaxAmount are capped to it.
func (in Inputs) Clamped() Inputs {
	return Inputs{
		Revenue:             clampAmount(in.Revenue),
		GrossSalaryMonthly:  clampAmount(in.GrossSalaryMonthly),
		InsuranceAnnual:     clampAmount(in.InsuranceAnnual),
		PhoneMonthly:        clampAmount(in.PhoneMonthly),
		InternetMonthly:     clampAmount(in.InternetMonthly),
		CarMonthly:          clampAmount(in.CarMonthly),
		MealVouchersMonthly: clampAmount(in.MealVouchersMonthly),
		RestaurantMonthly:   clampAmount(in.RestaurantMonthly),
		PensionAnnual:       clampAmount(in.PensionAnnual),
		OtherAnnual:         clampAmount(in.OtherAnnual),
	}
}

// WithRevenue returns a copy of the inputs with revenue replaced.
func (in Inputs) WithRevenue(revenue float64) Inputs {
	in.Revenue = revenue
	return in
}

func clampAmount(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return math.Min(value, constants.MaxAmount)
}
