// Package format renders monetary amounts for humans.
package format

import (
	"fmt"
	"math"

	"github.com/secretMoi/Purefin/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns a currency string with a euro sign and thousands separators (e.g., "-€1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// Percent renders a rate such as 0.205 as "20.50%".
func Percent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// formatPositiveCurrency groups thousands the English way. A printer is built
// per call since message.Printer is not documented as safe for concurrent use.
func formatPositiveCurrency(value float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", value)
}
