package repositories

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
)

// SummaryReader defines read operations for monthly summary data
type SummaryReader interface {
	// FindSummaryByUserAndPeriod retrieves the summary row for one user and
	// billing period.
	FindSummaryByUserAndPeriod(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error)
}

// SummaryWriter defines write operations for monthly summary data
type SummaryWriter interface {
	// UpsertSummary inserts or replaces the summary row keyed by
	// (user, year, month).
	UpsertSummary(ctx context.Context, summary domain.MonthlySummary) error
}

// SummaryRepositoryFacade combines the summary repository interfaces.
type SummaryRepositoryFacade interface {
	SummaryReader
	SummaryWriter
}
