package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	"github.com/finledger/finance_ledger_app/internal/models"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

const accountColumns = `account_id, user_id, name, type, is_paid, total_amount, installment_amount, installments,
	start_date, due_day, closing_date, is_preview, reference_month, reference_year, credit_limit, credit_card_id,
	created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:         d.AccountID,
		UserID:            d.UserID,
		Name:              d.Name,
		Type:              models.AccountType(d.Type),
		IsPaid:            d.IsPaid,
		TotalAmount:       centsToInt64Ptr(d.TotalAmount),
		InstallmentAmount: centsToInt64Ptr(d.InstallmentAmount),
		Installments:      d.Installments,
		StartDate:         d.StartDate,
		DueDay:            d.DueDay,
		ClosingDate:       d.ClosingDate,
		IsPreview:         d.IsPreview,
		ReferenceMonth:    d.ReferenceMonth,
		ReferenceYear:     d.ReferenceYear,
		CreditLimit:       centsToInt64Ptr(d.CreditLimit),
		CreditCardID:      d.CreditCardID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:         m.AccountID,
		UserID:            m.UserID,
		Name:              m.Name,
		Type:              domain.AccountType(m.Type),
		IsPaid:            m.IsPaid,
		TotalAmount:       int64ToCentsPtr(m.TotalAmount),
		InstallmentAmount: int64ToCentsPtr(m.InstallmentAmount),
		Installments:      m.Installments,
		StartDate:         m.StartDate,
		DueDay:            m.DueDay,
		ClosingDate:       m.ClosingDate,
		IsPreview:         m.IsPreview,
		ReferenceMonth:    m.ReferenceMonth,
		ReferenceYear:     m.ReferenceYear,
		CreditLimit:       int64ToCentsPtr(m.CreditLimit),
		CreditCardID:      m.CreditCardID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.Type,
		&m.IsPaid,
		&m.TotalAmount,
		&m.InstallmentAmount,
		&m.Installments,
		&m.StartDate,
		&m.DueDay,
		&m.ClosingDate,
		&m.IsPreview,
		&m.ReferenceMonth,
		&m.ReferenceYear,
		&m.CreditLimit,
		&m.CreditCardID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveAccount inserts a new account row.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.UserID, m.Name, m.Type, m.IsPaid,
		m.TotalAmount, m.InstallmentAmount, m.Installments,
		m.StartDate, m.DueDay, m.ClosingDate, m.IsPreview,
		m.ReferenceMonth, m.ReferenceYear, m.CreditLimit, m.CreditCardID,
		m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return wrapDuplicate(err, "failed to save account %s", m.AccountID)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	account := toDomainAccount(m)
	return &account, nil
}

// ListAccounts retrieves accounts matching the filter ordered by due day,
// with the total match count. A non-positive limit disables paging.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountListFilter) ([]domain.Account, int, error) {
	where, args := buildAccountFilter(filter)

	countQuery := `SELECT COUNT(*) FROM accounts` + where
	var total int
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts` + where + ` ORDER BY due_day ASC, created_at ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading account rows: %w", err)
	}
	return accounts, total, nil
}

// UpdateAccount updates an existing account's details.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, is_paid = $3, total_amount = $4, installment_amount = $5, installments = $6,
		    start_date = $7, due_day = $8, closing_date = $9, is_preview = $10,
		    reference_month = $11, reference_year = $12, credit_limit = $13, credit_card_id = $14,
		    last_updated_at = $15
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.Name, m.IsPaid, m.TotalAmount, m.InstallmentAmount, m.Installments,
		m.StartDate, m.DueDay, m.ClosingDate, m.IsPreview,
		m.ReferenceMonth, m.ReferenceYear, m.CreditLimit, m.CreditCardID,
		m.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetAccountPaid updates only the paid flag. Marking paid also clears the
// preview flag since a settled account is no longer a projection.
func (r *PgxAccountRepository) SetAccountPaid(ctx context.Context, accountID string, isPaid bool) error {
	query := `
		UPDATE accounts
		SET is_paid = $2,
		    is_preview = CASE WHEN $2 THEN FALSE ELSE is_preview END,
		    last_updated_at = NOW()
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, isPaid)
	if err != nil {
		return fmt.Errorf("failed to set paid flag on account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccountInTx removes the account row within the given transaction.
func (r *PgxAccountRepository) DeleteAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func buildAccountFilter(filter portsrepo.AccountListFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.Type != nil {
		add("type = $%d", string(*filter.Type))
	}
	if filter.IsPaid != nil {
		add("is_paid = $%d", *filter.IsPaid)
	}
	if filter.ReferenceMonth != nil {
		add("reference_month = $%d", *filter.ReferenceMonth)
	}
	if filter.ReferenceYear != nil {
		add("reference_year = $%d", *filter.ReferenceYear)
	}
	if filter.CreditCardID != nil {
		add("credit_card_id = $%d", *filter.CreditCardID)
	}
	if filter.HasInstallments {
		conditions = append(conditions, "installments IS NOT NULL")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func centsToInt64Ptr(c *money.Cents) *int64 {
	if c == nil {
		return nil
	}
	v := int64(*c)
	return &v
}

func int64ToCentsPtr(v *int64) *money.Cents {
	if v == nil {
		return nil
	}
	c := money.Cents(*v)
	return &c
}
