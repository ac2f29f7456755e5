package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
	"github.com/finledger/finance_ledger_app/internal/utils/schedule"
)

// SummaryService rebuilds the derived per-user monthly summaries from
// transactions and unpaid installments. Recalculation is idempotent.
type SummaryService struct {
	summaryRepo     portsrepo.SummaryRepositoryFacade
	transactionRepo portsrepo.TransactionReader
	installmentRepo portsrepo.InstallmentReader
	accountRepo     portsrepo.AccountReader
}

func NewSummaryService(
	summaryRepo portsrepo.SummaryRepositoryFacade,
	transactionRepo portsrepo.TransactionReader,
	installmentRepo portsrepo.InstallmentReader,
	accountRepo portsrepo.AccountReader,
) *SummaryService {
	return &SummaryService{
		summaryRepo:     summaryRepo,
		transactionRepo: transactionRepo,
		installmentRepo: installmentRepo,
		accountRepo:     accountRepo,
	}
}

// GetSummary returns the stored summary for the period, computing it on the
// fly when no row exists yet.
func (s *SummaryService) GetSummary(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error) {
	summary, err := s.summaryRepo.FindSummaryByUserAndPeriod(ctx, userID, month, year)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.Recalculate(ctx, userID, month, year)
		}
		return nil, err
	}
	return summary, nil
}

// Recalculate rebuilds one period's summary from the user's transactions
// dated inside the month and the unpaid installments due inside it.
func (s *SummaryService) Recalculate(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start, end := schedule.MonthBounds(year, month)

	txns, err := s.transactionRepo.FindTransactionsInRange(ctx, userID, start, end)
	if err != nil {
		logger.Error("Failed to load transactions for summary", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}

	var totalIncome, totalExpenses money.Cents
	for _, txn := range txns {
		switch txn.Type {
		case domain.Income:
			totalIncome += txn.Value
		case domain.Expense:
			totalExpenses += txn.Value
		}
	}

	unpaid, err := s.installmentRepo.FindUnpaidInstallmentsDueInRange(ctx, userID, start, end)
	if err != nil {
		logger.Error("Failed to load unpaid installments for summary", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}

	var billsToPay money.Cents
	for _, ins := range unpaid {
		billsToPay += ins.Amount
	}

	totalBalance := totalIncome - totalExpenses
	summary := domain.MonthlySummary{
		SummaryID:        uuid.NewString(),
		UserID:           userID,
		ReferenceMonth:   month,
		ReferenceYear:    year,
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		TotalBalance:     totalBalance,
		BillsToPay:       billsToPay,
		BillsCount:       len(unpaid),
		Status:           domain.ClassifySummaryStatus(totalBalance, billsToPay),
		LastCalculatedAt: time.Now().UTC(),
	}

	if err := s.summaryRepo.UpsertSummary(ctx, summary); err != nil {
		logger.Error("Failed to upsert monthly summary", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, err
	}

	logger.Debug("Monthly summary recalculated",
		slog.String("user_id", userID),
		slog.Int("month", month),
		slog.Int("year", year),
		slog.String("status", string(summary.Status)),
	)
	return &summary, nil
}

// RecalculateMonths rebuilds several periods, continuing past individual
// failures. The last failure is returned so callers can log it.
func (s *SummaryService) RecalculateMonths(ctx context.Context, userID string, periods []domain.Period) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	var lastErr error
	for _, p := range periods {
		if _, err := s.Recalculate(ctx, userID, p.Month, p.Year); err != nil {
			logger.Error("Summary recalculation failed for period",
				slog.String("user_id", userID),
				slog.Int("month", p.Month),
				slog.Int("year", p.Year),
				slog.String("error", err.Error()),
			)
			lastErr = err
		}
	}
	return lastErr
}

// RecalculateForAccount rebuilds the given periods for the owner of the
// account.
func (s *SummaryService) RecalculateForAccount(ctx context.Context, accountID string, periods []domain.Period) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	return s.RecalculateMonths(ctx, account.UserID, periods)
}
