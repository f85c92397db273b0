package analytics

import "github.com/shopspring/decimal"

// FormatCurrency renders a value as ±$X.XX with exactly two decimal places.
// A leading "+" appears only when showSign is true and the value is strictly
// positive; zero never gets a sign.
func FormatCurrency(value float64, showSign bool) string {
	d := decimal.NewFromFloat(value)
	fixed := d.Abs().StringFixed(2)
	switch {
	case d.IsNegative():
		return "-$" + fixed
	case showSign && d.IsPositive():
		return "+$" + fixed
	default:
		return "$" + fixed
	}
}

// FormatPercentage renders a value as ±X.XX% with the same sign-prefix
// policy as FormatCurrency.
func FormatPercentage(value float64, showSign bool) string {
	d := decimal.NewFromFloat(value)
	if showSign && d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}
