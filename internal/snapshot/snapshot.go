// Package snapshot defines the persisted form of a simulation: the raw inputs
// together with the headline results calculated when the record was saved.
package snapshot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secretMoi/Purefin/internal/simulation"
	"github.com/secretMoi/Purefin/pkg/constants"
	"github.com/shopspring/decimal"
)

// ErrDrift is returned by Verify when stored results no longer match a
// recalculation from the stored inputs.
var ErrDrift = errors.New("stored results drifted from calculation")

// Record is a saved simulation. Amounts are kept as decimals rounded to cents
// so a stored record compares exactly across encodings.
type Record struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Revenue             decimal.Decimal `json:"revenue"`
	GrossSalaryMonthly  decimal.Decimal `json:"grossSalaryMonthly"`
	InsuranceAnnual     decimal.Decimal `json:"insuranceAnnual"`
	PhoneMonthly        decimal.Decimal `json:"phoneMonthly"`
	InternetMonthly     decimal.Decimal `json:"internetMonthly"`
	CarMonthly          decimal.Decimal `json:"carMonthly"`
	MealVouchersMonthly decimal.Decimal `json:"mealVouchersMonthly"`
	RestaurantMonthly   decimal.Decimal `json:"restaurantMonthly"`
	PensionAnnual       decimal.Decimal `json:"pensionAnnual"`
	OtherAnnual         decimal.Decimal `json:"otherAnnual"`

	CalculatedNetAnnual           decimal.Decimal `json:"calculatedNetAnnual"`
	CalculatedSocialContributions decimal.Decimal `json:"calculatedSocialContributions"`
	CalculatedIPP                 decimal.Decimal `json:"calculatedIPP"`
	CalculatedCorpTax             decimal.Decimal `json:"calculatedCorpTax"`
	CalculatedReserves            decimal.Decimal `json:"calculatedReserves"`
}

// New validates inputs, calculates them and returns a fresh record. A nil
// calculator uses the default rules.
func New(name string, inputs simulation.Inputs, calc *simulation.Calculator) (Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, errors.New("snapshot name is required")
	}
	if err := inputs.Validate(); err != nil {
		return Record{}, fmt.Errorf("snapshot %q: %w", name, err)
	}
	if calc == nil {
		calc = simulation.Default()
	}

	now := time.Now().UTC()
	rec := Record{
		ID:                  uuid.New(),
		Name:                name,
		CreatedAt:           now,
		UpdatedAt:           now,
		Revenue:             cents(inputs.Revenue),
		GrossSalaryMonthly:  cents(inputs.GrossSalaryMonthly),
		InsuranceAnnual:     cents(inputs.InsuranceAnnual),
		PhoneMonthly:        cents(inputs.PhoneMonthly),
		InternetMonthly:     cents(inputs.InternetMonthly),
		CarMonthly:          cents(inputs.CarMonthly),
		MealVouchersMonthly: cents(inputs.MealVouchersMonthly),
		RestaurantMonthly:   cents(inputs.RestaurantMonthly),
		PensionAnnual:       cents(inputs.PensionAnnual),
		OtherAnnual:         cents(inputs.OtherAnnual),
	}
	// Results are computed from the rounded inputs so that Verify recomputes
	// exactly what was stored.
	rec.store(calc.Calculate(rec.Inputs()))
	return rec, nil
}

// Inputs converts the stored amounts back to calculator inputs.
func (r Record) Inputs() simulation.Inputs {
	return simulation.Inputs{
		Revenue:             r.Revenue.InexactFloat64(),
		GrossSalaryMonthly:  r.GrossSalaryMonthly.InexactFloat64(),
		InsuranceAnnual:     r.InsuranceAnnual.InexactFloat64(),
		PhoneMonthly:        r.PhoneMonthly.InexactFloat64(),
		InternetMonthly:     r.InternetMonthly.InexactFloat64(),
		CarMonthly:          r.CarMonthly.InexactFloat64(),
		MealVouchersMonthly: r.MealVouchersMonthly.InexactFloat64(),
		RestaurantMonthly:   r.RestaurantMonthly.InexactFloat64(),
		PensionAnnual:       r.PensionAnnual.InexactFloat64(),
		OtherAnnual:         r.OtherAnnual.InexactFloat64(),
	}
}

// Recompute recalculates the full result from the stored inputs.
func (r Record) Recompute(calc *simulation.Calculator) (simulation.Result, error) {
	inputs := r.Inputs()
	if err := inputs.Validate(); err != nil {
		return simulation.Result{}, fmt.Errorf("snapshot %s: %w", r.ID, err)
	}
	if calc == nil {
		calc = simulation.Default()
	}
	return calc.Calculate(inputs), nil
}

// Update replaces the inputs, recalculates the stored results and bumps
// UpdatedAt. The identifier and creation time are kept.
func (r *Record) Update(inputs simulation.Inputs, calc *simulation.Calculator) error {
	fresh, err := New(r.Name, inputs, calc)
	if err != nil {
		return err
	}
	fresh.ID = r.ID
	fresh.CreatedAt = r.CreatedAt
	*r = fresh
	return nil
}

// Verify recomputes the record and compares each stored result at cent
// precision. Mismatches are reported in a single error wrapping ErrDrift.
func (r Record) Verify(calc *simulation.Calculator) error {
	res, err := r.Recompute(calc)
	if err != nil {
		return err
	}

	checks := []struct {
		field  string
		stored decimal.Decimal
		actual float64
	}{
		{"calculatedNetAnnual", r.CalculatedNetAnnual, res.NetAnnual},
		{"calculatedSocialContributions", r.CalculatedSocialContributions, res.SocialContributions},
		{"calculatedIPP", r.CalculatedIPP, res.IPP},
		{"calculatedCorpTax", r.CalculatedCorpTax, res.CorpTax},
		{"calculatedReserves", r.CalculatedReserves, res.Reserves},
	}

	var mismatches []string
	for _, c := range checks {
		actual := cents(c.actual)
		if !c.stored.Round(constants.CurrencyDecimalPlaces).Equal(actual) {
			mismatches = append(mismatches, fmt.Sprintf("%s stored %s, calculated %s", c.field, c.stored.StringFixed(constants.CurrencyDecimalPlaces), actual.StringFixed(constants.CurrencyDecimalPlaces)))
		}
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%w: %s", ErrDrift, strings.Join(mismatches, "; "))
	}
	return nil
}

func (r *Record) store(res simulation.Result) {
	r.CalculatedNetAnnual = cents(res.NetAnnual)
	r.CalculatedSocialContributions = cents(res.SocialContributions)
	r.CalculatedIPP = cents(res.IPP)
	r.CalculatedCorpTax = cents(res.CorpTax)
	r.CalculatedReserves = cents(res.Reserves)
}

func cents(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(constants.CurrencyDecimalPlaces)
}
