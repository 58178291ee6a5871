// Package money formats decimal amounts in the storefront's single implied currency (USD).
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const symbol = "$"

var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders an amount the way en-US renders USD, e.g. $1,234.56. Rounding happens
// here and only here; callers keep exact values.
func Format(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s%s%s.%02d", sign, symbol, printer.Sprintf("%d", whole.IntPart()), cents)
}
