// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/secretMoi/Purefin/internal/forecast"
	"github.com/secretMoi/Purefin/internal/simulation"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindScenario(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// ExampleInputs returns the reference remuneration package: 120k revenue,
// 4k monthly salary and a company car, phone, internet line, meal vouchers
// and restaurant budget.
func ExampleInputs() simulation.Inputs {
	return simulation.Inputs{
		Revenue:             120000,
		GrossSalaryMonthly:  4000,
		InsuranceAnnual:     2000,
		PhoneMonthly:        50,
		InternetMonthly:     50,
		CarMonthly:          600,
		MealVouchersMonthly: 160,
		RestaurantMonthly:   200,
		PensionAnnual:       3000,
		OtherAnnual:         5000,
	}
}

// AssertClose fails the test when got and want differ by more than tolerance.
func AssertClose(t testing.TB, name string, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("%s = %.4f, expected %.4f (±%.4f)", name, got, want, tolerance)
	}
}
