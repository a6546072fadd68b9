package simulation

import (
	"github.com/samber/lo"

	"github.com/secretMoi/Purefin/internal/tax"
	"github.com/secretMoi/Purefin/pkg/mathutil"
)

// Calculator runs the forward calculation for one rule set. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	rules Rules
}

var defaultCalculator = &Calculator{rules: DefaultRules()}

// New returns a Calculator for rules after validating them.
func New(rules Rules) (*Calculator, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{rules: rules.clone()}, nil
}

// Default returns the Calculator bound to DefaultRules.
func Default() *Calculator {
	return defaultCalculator
}

// Rules returns a copy of the calculator's rule table.
func (c *Calculator) Rules() Rules {
	return c.rules.clone()
}

// Calculate runs the forward calculation with DefaultRules.
func Calculate(in Inputs) Result {
	return defaultCalculator.Calculate(in)
}

// Calculate decomposes the inputs into personal and company figures. Invalid
// amounts are clamped to zero so the function is total.
func (c *Calculator) Calculate(in Inputs) Result {
	in = in.Clamped()
	r := c.rules

	var res Result
	res.Revenue = in.Revenue

	// Personal side.
	res.GrossSalaryAnnual = mathutil.Annualize(in.GrossSalaryMonthly)
	res.TotalBenefitsInKind = lo.SumBy(c.BenefitsInKind(in), func(line ExpenseLine) float64 {
		return line.Annual
	})
	res.ContributionBase = res.GrossSalaryAnnual + res.TotalBenefitsInKind

	cappedBase := mathutil.Min(res.ContributionBase, r.SocialContributionCeiling)
	res.SocialContributions = cappedBase * r.SocialContributionRate * r.AdminSurcharge

	afterContributions := mathutil.NonNegative(res.ContributionBase - res.SocialContributions)
	res.ProfessionalExpensesDeduction = mathutil.Min(r.ProfessionalExpenseCap, r.ProfessionalExpenseRate*afterContributions)

	res.TaxableIncome = mathutil.NonNegative(res.ContributionBase - res.SocialContributions - res.ProfessionalExpensesDeduction)
	res.IPP = tax.PersonalTax(res.TaxableIncome, r.personalTax())

	res.NetAnnual = res.GrossSalaryAnnual - res.SocialContributions - res.IPP
	res.NetMonthly = mathutil.Monthly(res.NetAnnual)

	// Company side.
	res.TotalDeductiblesAnnual = lo.SumBy(c.ExpenseLines(in), func(line ExpenseLine) float64 {
		return line.Annual
	})
	restaurantAnnual := mathutil.Annualize(in.RestaurantMonthly)
	res.NonAdmittedExpenses = restaurantAnnual - restaurantAnnual*r.RestaurantDeductibleShare
	res.TotalCompanyExpenses = res.GrossSalaryAnnual + res.TotalDeductiblesAnnual
	res.TaxableProfit = mathutil.NonNegative(in.Revenue - res.TotalCompanyExpenses + res.NonAdmittedExpenses)

	res.ReducedRateApplied = res.GrossSalaryAnnual >= r.CorpMinimumSalary
	res.CorpTax = c.corporateTax(res.TaxableProfit, res.ReducedRateApplied)
	res.Reserves = in.Revenue - res.TotalCompanyExpenses - res.CorpTax

	res.NetCombinedAnnual = res.NetAnnual + res.Reserves
	res.NetCombinedMonthly = mathutil.Monthly(res.NetCombinedAnnual)

	return res
}

// BenefitsInKind returns the flat benefit lines triggered by the inputs. A
// line is present when its expense is strictly positive; the amount does not
// depend on the expense value.
func (c *Calculator) BenefitsInKind(in Inputs) []ExpenseLine {
	in = in.Clamped()
	bik := c.rules.BenefitInKind
	gates := []struct {
		name    string
		monthly float64
		flat    float64
	}{
		{"car", in.CarMonthly, bik.Car},
		{"phone", in.PhoneMonthly, bik.Phone},
		{"internet", in.InternetMonthly, bik.Internet},
	}

	var lines []ExpenseLine
	for _, gate := range gates {
		if gate.monthly > 0 {
			lines = append(lines, ExpenseLine{Name: gate.name, Annual: gate.flat})
		}
	}
	return lines
}

// ExpenseLines returns the annualized company expenses other than salary.
// Restaurant costs are listed in full; their non-admitted share is added back
// to taxable profit by Calculate.
func (c *Calculator) ExpenseLines(in Inputs) []ExpenseLine {
	in = in.Clamped()
	return []ExpenseLine{
		{Name: "insurance", Annual: in.InsuranceAnnual},
		{Name: "phone", Annual: mathutil.Annualize(in.PhoneMonthly)},
		{Name: "internet", Annual: mathutil.Annualize(in.InternetMonthly)},
		{Name: "car", Annual: mathutil.Annualize(in.CarMonthly)},
		{Name: "mealVouchers", Annual: mathutil.Annualize(in.MealVouchersMonthly)},
		{Name: "restaurant", Annual: mathutil.Annualize(in.RestaurantMonthly)},
		{Name: "pension", Annual: in.PensionAnnual},
		{Name: "other", Annual: in.OtherAnnual},
	}
}

func (c *Calculator) corporateTax(taxableProfit float64, reduced bool) float64 {
	r := c.rules
	if !reduced {
		return taxableProfit * r.CorpStandardRate
	}
	if taxableProfit <= r.CorpBreakpoint {
		return taxableProfit * r.CorpReducedRate
	}
	return r.CorpBreakpoint*r.CorpReducedRate + (taxableProfit-r.CorpBreakpoint)*r.CorpStandardRate
}
