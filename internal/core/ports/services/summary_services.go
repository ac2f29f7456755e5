package services

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
)

// SummarySvcFacade maintains the derived per-user monthly summaries.
// Recalculation is idempotent: with unchanged inputs it stores the same
// totals, only the calculation timestamp advances.
type SummarySvcFacade interface {
	// GetSummary retrieves the stored summary for one period.
	GetSummary(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error)

	// Recalculate rebuilds one period's summary from the user's transactions
	// and unpaid installments.
	Recalculate(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error)

	// RecalculateMonths rebuilds the summaries of several periods.
	RecalculateMonths(ctx context.Context, userID string, periods []domain.Period) error

	// RecalculateForAccount rebuilds the given periods for the owner of the
	// account.
	RecalculateForAccount(ctx context.Context, accountID string, periods []domain.Period) error
}
