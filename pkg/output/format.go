// Package output provides utilities for formatting and displaying scenario results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/secretMoi/Purefin/internal/forecast"
	"github.com/secretMoi/Purefin/pkg/constants"
	"github.com/secretMoi/Purefin/pkg/format"
	"github.com/secretMoi/Purefin/pkg/mathutil"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(results []forecast.Forecast) {
	PrettyWrite(os.Stdout, results)
}

// PrettyWrite writes the human-readable report to w.
func PrettyWrite(w io.Writer, results []forecast.Forecast) {
	amount := func(label string, value float64) {
		_, _ = fmt.Fprintf(w, "  %-32s %s\n", label, format.Currency(value))
	}
	rate := func(label string, value, base float64) {
		_, _ = fmt.Fprintf(w, "  %-32s %s\n", label, format.Percent(mathutil.SafeDivide(value, base)))
	}

	for i, result := range results {
		res := result.Result
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		amount("Revenue", res.Revenue)
		if result.Solve != nil {
			status := "converged"
			if !result.Solve.Converged {
				status = "not converged"
			}
			_, _ = fmt.Fprintf(w, "  %-32s %s per month, %s after %d iterations\n",
				"Solved for net target", format.Currency(mathutil.Monthly(result.Solve.Target)),
				status, result.Solve.Iterations)
		}

		_, _ = fmt.Fprintln(w, "Personal")
		amount("Gross salary", res.GrossSalaryAnnual)
		amount("Benefits in kind", res.TotalBenefitsInKind)
		amount("Social contributions", res.SocialContributions)
		amount("Professional expenses", res.ProfessionalExpensesDeduction)
		amount("Taxable income", res.TaxableIncome)
		amount("Personal income tax", res.IPP)
		amount("Net annual", res.NetAnnual)
		amount("Net monthly", res.NetMonthly)
		rate("Effective personal rate", res.SocialContributions+res.IPP, res.GrossSalaryAnnual)

		_, _ = fmt.Fprintln(w, "Company")
		amount("Deductible expenses", res.TotalDeductiblesAnnual)
		amount("Non-admitted expenses", res.NonAdmittedExpenses)
		amount("Total expenses", res.TotalCompanyExpenses)
		amount("Taxable profit", res.TaxableProfit)
		amount("Corporate tax", res.CorpTax)
		amount("Reserves", res.Reserves)
		rate("Effective corporate rate", res.CorpTax, res.TaxableProfit)

		_, _ = fmt.Fprintln(w, "Combined")
		amount("Net annual", res.NetCombinedAnnual)
		amount("Net monthly", res.NetCombinedMonthly)
		if result.DaysWorked > 0 {
			_, _ = fmt.Fprintf(w, "  %-32s %s over %.0f days\n", "Daily rate", format.Currency(result.DailyRate), result.DaysWorked)
		}

		if len(result.Notes) > 0 {
			_, _ = fmt.Fprintf(w, "Notes: %s\n", strings.Join(result.Notes, "; "))
		}
		if len(results) > 1 && i < len(results)-1 {
			_, _ = fmt.Fprintln(w)
		}
	}
}

var csvHeader = []string{
	"scenario", "revenue", "grossSalaryAnnual", "socialContributions", "taxableIncome", "ipp",
	"netAnnual", "netMonthly", "totalCompanyExpenses", "taxableProfit", "corpTax", "reserves",
	"netCombinedAnnual", "dailyRate", "converged", "notes",
}

// CsvFormat outputs in comma-separated value format, one row per scenario.
func CsvFormat(results []forecast.Forecast) error {
	return CsvWrite(os.Stdout, results)
}

// CsvString returns the CSV rendering of results.
func CsvString(results []forecast.Forecast) (string, error) {
	var b strings.Builder
	if err := CsvWrite(&b, results); err != nil {
		return "", err
	}
	return b.String(), nil
}

// CsvWrite writes the CSV rendering of results to w.
func CsvWrite(w io.Writer, results []forecast.Forecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		res := result.Result
		converged := ""
		if result.Solve != nil {
			converged = strconv.FormatBool(result.Solve.Converged)
		}
		row := []string{
			result.Name,
			decimal(res.Revenue),
			decimal(res.GrossSalaryAnnual),
			decimal(res.SocialContributions),
			decimal(res.TaxableIncome),
			decimal(res.IPP),
			decimal(res.NetAnnual),
			decimal(res.NetMonthly),
			decimal(res.TotalCompanyExpenses),
			decimal(res.TaxableProfit),
			decimal(res.CorpTax),
			decimal(res.Reserves),
			decimal(res.NetCombinedAnnual),
			decimal(result.DailyRate),
			converged,
			strings.Join(result.Notes, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decimal(value float64) string {
	return strconv.FormatFloat(value, 'f', constants.CurrencyDecimalPlaces, 64)
}
