// Package money holds the decimal arithmetic used for invoice and bill totals.
package money

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LineTotal is quantity × unit price.
func LineTotal(quantity int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}

// Fixed renders d rounded half away from zero to two places.
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Round2 rounds to two places for JSON number output.
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// ParsePrice accepts a JSON number or numeric string. Empty input is reported as not present.
func ParsePrice(raw json.Number) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err := decimal.NewFromString(s)
	return d, true, err
}

// ParseQuantity accepts a JSON number or numeric string that must be a whole number.
func ParseQuantity(raw json.Number) (int64, bool, error) {
	s := strings.TrimSpace(raw.String())
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, true, err
}

// FromFloat converts a stored amount for display rounding.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
