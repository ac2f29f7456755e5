package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	"github.com/finledger/finance_ledger_app/internal/models"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

const summaryColumns = `summary_id, user_id, reference_month, reference_year, total_income,
	total_expenses, total_balance, bills_to_pay, bills_count, status, last_calculated_at`

type PgxSummaryRepository struct {
	BaseRepository
}

func newPgxSummaryRepository(pool *pgxpool.Pool) *PgxSummaryRepository {
	return &PgxSummaryRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SummaryRepositoryFacade = (*PgxSummaryRepository)(nil)

func toModelSummary(d domain.MonthlySummary) models.MonthlySummary {
	return models.MonthlySummary{
		SummaryID:        d.SummaryID,
		UserID:           d.UserID,
		ReferenceMonth:   d.ReferenceMonth,
		ReferenceYear:    d.ReferenceYear,
		TotalIncome:      int64(d.TotalIncome),
		TotalExpenses:    int64(d.TotalExpenses),
		TotalBalance:     int64(d.TotalBalance),
		BillsToPay:       int64(d.BillsToPay),
		BillsCount:       d.BillsCount,
		Status:           string(d.Status),
		LastCalculatedAt: d.LastCalculatedAt,
	}
}

func toDomainSummary(m models.MonthlySummary) domain.MonthlySummary {
	return domain.MonthlySummary{
		SummaryID:        m.SummaryID,
		UserID:           m.UserID,
		ReferenceMonth:   m.ReferenceMonth,
		ReferenceYear:    m.ReferenceYear,
		TotalIncome:      money.Cents(m.TotalIncome),
		TotalExpenses:    money.Cents(m.TotalExpenses),
		TotalBalance:     money.Cents(m.TotalBalance),
		BillsToPay:       money.Cents(m.BillsToPay),
		BillsCount:       m.BillsCount,
		Status:           domain.SummaryStatus(m.Status),
		LastCalculatedAt: m.LastCalculatedAt,
	}
}

// FindSummaryByUserAndPeriod retrieves the summary row for one user and
// billing period.
func (r *PgxSummaryRepository) FindSummaryByUserAndPeriod(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM monthly_summaries
		WHERE user_id = $1 AND reference_month = $2 AND reference_year = $3;`

	var m models.MonthlySummary
	err := r.Pool.QueryRow(ctx, query, userID, month, year).Scan(
		&m.SummaryID,
		&m.UserID,
		&m.ReferenceMonth,
		&m.ReferenceYear,
		&m.TotalIncome,
		&m.TotalExpenses,
		&m.TotalBalance,
		&m.BillsToPay,
		&m.BillsCount,
		&m.Status,
		&m.LastCalculatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find summary for user %s period %d/%d: %w", userID, month, year, err)
	}

	summary := toDomainSummary(m)
	return &summary, nil
}

// UpsertSummary inserts or replaces the summary row keyed by
// (user, year, month).
func (r *PgxSummaryRepository) UpsertSummary(ctx context.Context, summary domain.MonthlySummary) error {
	m := toModelSummary(summary)

	query := `
		INSERT INTO monthly_summaries (` + summaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, reference_year, reference_month) DO UPDATE SET
			total_income = EXCLUDED.total_income,
			total_expenses = EXCLUDED.total_expenses,
			total_balance = EXCLUDED.total_balance,
			bills_to_pay = EXCLUDED.bills_to_pay,
			bills_count = EXCLUDED.bills_count,
			status = EXCLUDED.status,
			last_calculated_at = EXCLUDED.last_calculated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SummaryID, m.UserID, m.ReferenceMonth, m.ReferenceYear, m.TotalIncome,
		m.TotalExpenses, m.TotalBalance, m.BillsToPay, m.BillsCount, m.Status, m.LastCalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summary for user %s period %d/%d: %w",
			m.UserID, m.ReferenceMonth, m.ReferenceYear, err)
	}
	return nil
}
