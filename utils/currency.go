package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyIDR formats an amount in Indonesian Rupiah.
// Example: 15000.50 -> "Rp 15.000,50"
func FormatCurrencyIDR(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	// Tambahkan pemisah ribuan
	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "Rp " + sign + strings.Join(groups, ".")
	if fracPart != "00" {
		out += "," + fracPart
	}
	return out
}

// MinorUnits converts an amount to the integer amount payment processors expect.
// Rupiah has no minor unit in practice, every other currency uses cents.
func MinorUnits(amount decimal.Decimal, currency string) int64 {
	if strings.EqualFold(currency, "idr") {
		return amount.Round(0).IntPart()
	}
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
