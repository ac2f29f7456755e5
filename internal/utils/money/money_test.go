package money_test

import (
	"testing"

	"github.com/finledger/finance_ledger_app/internal/utils/money"
	"github.com/stretchr/testify/assert"
)

func TestSplitEvenly_SumIsPreserved(t *testing.T) {
	cases := []struct {
		total money.Cents
		n     int
	}{
		{0, 1},
		{1, 1},
		{100, 3},
		{1000, 7},
		{99999, 12},
		{500000, 10},
		{1, 5},
		{2, 3},
	}

	for _, tc := range cases {
		parts := money.SplitEvenly(tc.total, tc.n)
		assert.Len(t, parts, tc.n)
		assert.Equal(t, tc.total, money.Sum(parts), "total %d / n %d", tc.total, tc.n)
	}
}

func TestSplitEvenly_RemainderOnLastPart(t *testing.T) {
	parts := money.SplitEvenly(100, 3)
	assert.Equal(t, []money.Cents{33, 33, 34}, parts)

	parts = money.SplitEvenly(1, 5)
	assert.Equal(t, []money.Cents{0, 0, 0, 0, 1}, parts)
}

func TestSplitEvenly_PartsDifferByAtMostRemainder(t *testing.T) {
	parts := money.SplitEvenly(99999, 12)
	for _, p := range parts[:len(parts)-1] {
		assert.Equal(t, parts[0], p, "all parts but the last must be equal")
	}
	// last part carries the full remainder
	assert.GreaterOrEqual(t, parts[len(parts)-1], parts[0])
}

func TestSplitEvenly_InvalidCount(t *testing.T) {
	assert.Nil(t, money.SplitEvenly(100, 0))
	assert.Nil(t, money.SplitEvenly(100, -3))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "1234.56", money.FormatBRL(123456))
	assert.Equal(t, "0.05", money.FormatBRL(5))
	assert.Equal(t, "0.00", money.FormatBRL(0))
	assert.Equal(t, "-10.00", money.FormatBRL(-1000))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, "25", money.Percentage(2500, 10000).String())
	assert.True(t, money.Percentage(100, 0).IsZero())
}
