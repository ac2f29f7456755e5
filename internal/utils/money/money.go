// Package money holds the integer-cent money unit used across the engine.
// All persisted monetary values are cents; decimals only appear at the
// presentation edge.
package money

import (
	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in integer cents (BRL centavos).
type Cents int64

// SplitEvenly divides total into n integer-cent parts that are as equal as
// possible. The remainder of the division is added entirely to the last part,
// so the parts always sum back to total exactly.
func SplitEvenly(total Cents, n int) []Cents {
	if n < 1 {
		return nil
	}

	base := total / Cents(n)
	parts := make([]Cents, n)
	for i := range parts {
		parts[i] = base
	}
	parts[n-1] += total - base*Cents(n)
	return parts
}

// Sum returns the total of the given amounts.
func Sum(amounts []Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}

// ToDecimal converts a cent amount to a decimal in currency units (2 places).
func ToDecimal(c Cents) decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// FormatBRL formats a cent amount as a plain decimal string with two places,
// e.g. 123456 -> "1234.56".
func FormatBRL(c Cents) string {
	return ToDecimal(c).StringFixed(2)
}

// Percentage returns part/total as a percentage with 2-place precision.
// Returns zero when total is zero.
func Percentage(part, total Cents) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return ToDecimal(part).Div(ToDecimal(total)).Mul(decimal.NewFromInt(100)).Round(2)
}
