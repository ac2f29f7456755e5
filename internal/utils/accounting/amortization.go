// Package accounting implements the loan amortization math: solving the
// implied monthly interest rate backward from a user-declared fixed payment.
package accounting

import (
	"math"

	"github.com/finledger/finance_ledger_app/internal/utils/money"
	"github.com/shopspring/decimal"
)

const (
	maxIterations = 100
	tolerance     = 1e-10
	epsilon       = 1e-15
)

// LoanTerms holds the derived parameters of a loan. TotalAmount is the
// original principal; the total actually repaid is MonthlyPayment times the
// installment count, and TotalInterest is the difference.
type LoanTerms struct {
	TotalAmount         money.Cents
	MonthlyPayment      money.Cents
	TotalInterest       money.Cents
	MonthlyInterestRate decimal.Decimal // percentage, e.g. 2.15 for 2.15%/month
}

// CalculateLoanTerms derives the loan parameters for a principal repaid in n
// fixed installments of payment cents each.
func CalculateLoanTerms(principal money.Cents, n int, payment money.Cents) LoanTerms {
	totalRepaid := payment * money.Cents(n)
	return LoanTerms{
		TotalAmount:         principal,
		MonthlyPayment:      payment,
		TotalInterest:       totalRepaid - principal,
		MonthlyInterestRate: SolveMonthlyRate(principal, n, payment),
	}
}

// SolveMonthlyRate solves the annuity identity
//
//	A = (P * i) / (1 - (1 + i)^-n)
//
// for the monthly rate i, given principal P, installment count n and fixed
// payment A, using Newton-Raphson from the linear approximation
// i0 = (A*n - P) / (P*n). The result is returned as a percentage.
//
// The iteration is bounded: it stops after maxIterations, when successive
// iterates differ by less than the tolerance, when the denominator or the
// derivative become numerically negligible, or when an iterate leaves the
// admissible range [0, 1]. On early exit the best estimate so far is
// returned; non-convergence is not an observable error. When A*n < P the
// identity admits no non-negative rate and zero is returned.
func SolveMonthlyRate(principal money.Cents, n int, payment money.Cents) decimal.Decimal {
	if principal <= 0 || n <= 0 || payment <= 0 {
		return decimal.Zero
	}

	// payments at or below the zero-interest line carry no solvable rate
	if payment*money.Cents(n) <= principal {
		return decimal.Zero
	}

	p := float64(principal)
	a := float64(payment)
	nf := float64(n)

	rate := (a*nf - p) / (p * nf)

	for i := 0; i < maxIterations; i++ {
		onePlusRate := 1 + rate
		denominator := 1 - math.Pow(onePlusRate, -nf)
		if math.Abs(denominator) < epsilon {
			break
		}

		f := a - (p*rate)/denominator

		numeratorDerivative := p * (denominator - rate*nf*math.Pow(onePlusRate, -nf-1))
		fPrime := -numeratorDerivative / (denominator * denominator)
		if math.Abs(fPrime) < epsilon {
			break
		}

		newRate := rate - f/fPrime
		if math.Abs(newRate-rate) < tolerance {
			rate = newRate
			break
		}
		if newRate < 0 || newRate > 1 {
			break
		}
		rate = newRate
	}

	return decimal.NewFromFloat(rate * 100)
}

// AnnuityPayment evaluates the annuity formula at a given monthly rate
// (percentage): the fixed payment that amortizes principal over n months.
// Used to cross-check solved rates.
func AnnuityPayment(principal money.Cents, n int, ratePercent decimal.Decimal) float64 {
	rate, _ := ratePercent.Float64()
	i := rate / 100
	if i == 0 {
		return float64(principal) / float64(n)
	}
	return (float64(principal) * i) / (1 - math.Pow(1+i, -float64(n)))
}
