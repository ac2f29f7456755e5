package domain

import (
	"time"

	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// SummaryStatus is the health band of a monthly summary.
type SummaryStatus string

const (
	StatusExcellent SummaryStatus = "EXCELLENT"
	StatusGood      SummaryStatus = "GOOD"
	StatusWarning   SummaryStatus = "WARNING"
	StatusCritical  SummaryStatus = "CRITICAL"
)

// criticalBalanceThreshold is the balance (cents) below which a month is
// classified CRITICAL rather than WARNING.
const criticalBalanceThreshold = money.Cents(-50_000)

// ClassifySummaryStatus derives the status band from the month's balance and
// outstanding bills, both in cents.
func ClassifySummaryStatus(totalBalance, billsToPay money.Cents) SummaryStatus {
	switch {
	case totalBalance >= 0 && billsToPay == 0:
		return StatusExcellent
	case totalBalance >= 0:
		return StatusGood
	case totalBalance >= criticalBalanceThreshold:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// MonthlySummary is the derived per-user, per-month aggregate of income,
// expenses and outstanding bills. It is a rebuildable cache: always produced
// by recalculation from transactions and installments, never hand-edited.
type MonthlySummary struct {
	SummaryID        string        `json:"summaryID"`
	UserID           string        `json:"userID"`
	ReferenceMonth   int           `json:"referenceMonth"`
	ReferenceYear    int           `json:"referenceYear"`
	TotalIncome      money.Cents   `json:"totalIncome"`
	TotalExpenses    money.Cents   `json:"totalExpenses"`
	TotalBalance     money.Cents   `json:"totalBalance"`
	BillsToPay       money.Cents   `json:"billsToPay"`
	BillsCount       int           `json:"billsCount"`
	Status           SummaryStatus `json:"status"`
	LastCalculatedAt time.Time     `json:"lastCalculatedAt"`
}
