// Package extract pulls amounts, dates and counter-parties out of free text or
// a submitted form.
package extract

import (
	"regexp"
	"strings"

	"github.com/govalues/decimal"
)

var reNumber = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

// digits folds Arabic-Indic and Eastern Arabic-Indic digits plus the Arabic
// decimal separator onto ASCII before matching.
var digits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٫", ".",
)

// NormalizeDigits returns s with non-ASCII digits folded onto ASCII.
func NormalizeDigits(s string) string { return digits.Replace(s) }

// Amount returns the first number in text, scanning left to right, or zero when
// there is none. Zero is ambiguous; use AmountOK to tell "absent" from "0".
func Amount(text string) decimal.Decimal {
	d, _ := AmountOK(text)
	return d
}

// AmountOK is Amount plus a flag reporting whether a number was found. Only
// the first number counts: when it does not fit a decimal (an invoice or IBAN
// number, say) the amount is absent rather than taken from later text.
func AmountOK(text string) (decimal.Decimal, bool) {
	m := reNumber.FindString(NormalizeDigits(text))
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.Parse(m)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
