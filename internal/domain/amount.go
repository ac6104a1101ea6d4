package domain

import "github.com/shopspring/decimal"

// Precision is the number of decimal places kept on every balance.
const Precision int32 = 4

// Round4 rounds x to four decimal places, half away from zero.
func Round4(x decimal.Decimal) decimal.Decimal {
	return x.Round(Precision)
}

// FormatAmount renders x with exactly four decimal places.
func FormatAmount(x decimal.Decimal) string {
	return x.StringFixed(Precision)
}
