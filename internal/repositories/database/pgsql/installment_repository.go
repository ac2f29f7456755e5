package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	"github.com/finledger/finance_ledger_app/internal/models"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

const installmentColumns = `installment_id, account_id, number, due_date, amount, is_paid, paid_at,
	reference_month, reference_year, created_at, last_updated_at`

type PgxInstallmentRepository struct {
	BaseRepository
}

func newPgxInstallmentRepository(pool *pgxpool.Pool) *PgxInstallmentRepository {
	return &PgxInstallmentRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.InstallmentRepositoryWithTx = (*PgxInstallmentRepository)(nil)

func toModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID:  d.InstallmentID,
		AccountID:      d.AccountID,
		Number:         d.Number,
		DueDate:        d.DueDate,
		Amount:         int64(d.Amount),
		IsPaid:         d.IsPaid,
		PaidAt:         d.PaidAt,
		ReferenceMonth: d.ReferenceMonth,
		ReferenceYear:  d.ReferenceYear,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID:  m.InstallmentID,
		AccountID:      m.AccountID,
		Number:         m.Number,
		DueDate:        m.DueDate,
		Amount:         money.Cents(m.Amount),
		IsPaid:         m.IsPaid,
		PaidAt:         m.PaidAt,
		ReferenceMonth: m.ReferenceMonth,
		ReferenceYear:  m.ReferenceYear,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func scanInstallment(row pgx.Row) (models.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID,
		&m.AccountID,
		&m.Number,
		&m.DueDate,
		&m.Amount,
		&m.IsPaid,
		&m.PaidAt,
		&m.ReferenceMonth,
		&m.ReferenceYear,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// FindInstallmentByID retrieves a specific installment.
func (r *PgxInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE installment_id = $1;`

	m, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find installment by ID %s: %w", installmentID, err)
	}

	installment := toDomainInstallment(m)
	return &installment, nil
}

// FindInstallmentsByAccount retrieves all installments of an account ordered
// by number.
func (r *PgxInstallmentRepository) FindInstallmentsByAccount(ctx context.Context, accountID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE account_id = $1 ORDER BY number ASC;`
	return r.queryInstallments(ctx, query, accountID)
}

// FindUnpaidInstallmentsByAccount retrieves the unpaid installments of an
// account ordered by number.
func (r *PgxInstallmentRepository) FindUnpaidInstallmentsByAccount(ctx context.Context, accountID string) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM installments WHERE account_id = $1 AND is_paid = FALSE ORDER BY number ASC;`
	return r.queryInstallments(ctx, query, accountID)
}

// FindOverdueInstallments retrieves unpaid installments due strictly before
// the given instant, oldest first, optionally restricted to one account.
func (r *PgxInstallmentRepository) FindOverdueInstallments(ctx context.Context, accountID *string, before time.Time) ([]domain.Installment, error) {
	if accountID != nil {
		query := `SELECT ` + installmentColumns + ` FROM installments
			WHERE account_id = $1 AND is_paid = FALSE AND due_date < $2 ORDER BY due_date ASC;`
		return r.queryInstallments(ctx, query, *accountID, before)
	}
	query := `SELECT ` + installmentColumns + ` FROM installments
		WHERE is_paid = FALSE AND due_date < $1 ORDER BY due_date ASC;`
	return r.queryInstallments(ctx, query, before)
}

// FindUnpaidInstallmentsDueInRange retrieves unpaid installments of all
// accounts owned by the user with a due date inside [start, end].
func (r *PgxInstallmentRepository) FindUnpaidInstallmentsDueInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Installment, error) {
	query := `
		SELECT i.installment_id, i.account_id, i.number, i.due_date, i.amount, i.is_paid, i.paid_at,
		       i.reference_month, i.reference_year, i.created_at, i.last_updated_at
		FROM installments i
		JOIN accounts a ON a.account_id = i.account_id
		WHERE a.user_id = $1 AND i.is_paid = FALSE AND i.due_date BETWEEN $2 AND $3
		ORDER BY i.due_date ASC;
	`
	return r.queryInstallments(ctx, query, userID, start, end)
}

// ReplaceInstallments deletes every installment of the account and inserts
// the new batch in one database transaction: the old complete set or the new
// complete set is visible, never a mix.
func (r *PgxInstallmentRepository) ReplaceInstallments(ctx context.Context, accountID string, installments []domain.Installment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM installments WHERE account_id = $1;`, accountID); err != nil {
		return fmt.Errorf("failed to clear installments for account %s: %w", accountID, err)
	}

	insert := `
		INSERT INTO installments (` + installmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, d := range installments {
		m := toModelInstallment(d)
		if _, err := tx.Exec(ctx, insert,
			m.InstallmentID, m.AccountID, m.Number, m.DueDate, m.Amount, m.IsPaid, m.PaidAt,
			m.ReferenceMonth, m.ReferenceYear, m.CreatedAt, m.LastUpdatedAt,
		); err != nil {
			return wrapDuplicate(err, "failed to insert installment %d for account %s", m.Number, accountID)
		}
	}

	return r.Commit(ctx, tx)
}

// SetInstallmentPaid updates the paid flag and paidAt timestamp of one
// installment.
func (r *PgxInstallmentRepository) SetInstallmentPaid(ctx context.Context, installmentID string, isPaid bool, paidAt *time.Time) error {
	query := `
		UPDATE installments
		SET is_paid = $2, paid_at = $3, last_updated_at = NOW()
		WHERE installment_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, installmentID, isPaid, paidAt)
	if err != nil {
		return fmt.Errorf("failed to set paid flag on installment %s: %w", installmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkAllUnpaidPaid marks every unpaid installment of the account paid with
// a single paidAt timestamp.
func (r *PgxInstallmentRepository) MarkAllUnpaidPaid(ctx context.Context, accountID string, paidAt time.Time) error {
	query := `
		UPDATE installments
		SET is_paid = TRUE, paid_at = $2, last_updated_at = NOW()
		WHERE account_id = $1 AND is_paid = FALSE;
	`
	if _, err := r.Pool.Exec(ctx, query, accountID, paidAt); err != nil {
		return fmt.Errorf("failed to settle installments for account %s: %w", accountID, err)
	}
	return nil
}

// DeleteInstallmentsByAccountInTx removes all installments of the account
// within the given transaction.
func (r *PgxInstallmentRepository) DeleteInstallmentsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM installments WHERE account_id = $1;`, accountID); err != nil {
		return fmt.Errorf("failed to delete installments for account %s: %w", accountID, err)
	}
	return nil
}

func (r *PgxInstallmentRepository) queryInstallments(ctx context.Context, query string, args ...any) ([]domain.Installment, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	var installments []domain.Installment
	for rows.Next() {
		m, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		installments = append(installments, toDomainInstallment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading installment rows: %w", err)
	}
	return installments, nil
}
