package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	"github.com/finledger/finance_ledger_app/internal/models"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

const transactionColumns = `transaction_id, user_id, account_id, installment_id, type, category, description,
	value, date, created_at, last_updated_at`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	var category *string
	if d.Category != "" {
		category = &d.Category
	}
	return models.Transaction{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		AccountID:     d.AccountID,
		InstallmentID: d.InstallmentID,
		Type:          models.TransactionType(d.Type),
		Category:      category,
		Description:   d.Description,
		Value:         int64(d.Value),
		Date:          d.Date,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	var category string
	if m.Category != nil {
		category = *m.Category
	}
	return domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		AccountID:     m.AccountID,
		InstallmentID: m.InstallmentID,
		Type:          domain.TransactionType(m.Type),
		Category:      category,
		Description:   m.Description,
		Value:         money.Cents(m.Value),
		Date:          m.Date,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.AccountID,
		&m.InstallmentID,
		&m.Type,
		&m.Category,
		&m.Description,
		&m.Value,
		&m.Date,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveTransaction persists a new transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := toModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.UserID, m.AccountID, m.InstallmentID, m.Type, m.Category, m.Description,
		m.Value, m.Date, m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return wrapDuplicate(err, "failed to save transaction %s", m.TransactionID)
	}
	return nil
}

// FindTransactionByID retrieves a specific transaction.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := toDomainTransaction(m)
	return &txn, nil
}

// ListTransactions retrieves the user's transactions matching the filter,
// newest first, with the total match count.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter portsrepo.TransactionListFilter) ([]domain.Transaction, int, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}
	if filter.Type != nil {
		add("type = $%d", string(*filter.Type))
	}
	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}
	if filter.AccountID != nil {
		add("account_id = $%d", *filter.AccountID)
	}
	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where + ` ORDER BY date DESC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	txns, err := r.queryTransactions(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// FindTransactionsInRange retrieves all of a user's transactions dated
// inside [start, end].
func (r *PgxTransactionRepository) FindTransactionsInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date ASC;`
	return r.queryTransactions(ctx, query, userID, start, end)
}

// FindTransactionsByInstallment retrieves the transactions linked to an
// installment.
func (r *PgxTransactionRepository) FindTransactionsByInstallment(ctx context.Context, installmentID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE installment_id = $1 ORDER BY date ASC;`
	return r.queryTransactions(ctx, query, installmentID)
}

// CountTransactionsByInstallment counts transactions linked to an
// installment.
func (r *PgxTransactionRepository) CountTransactionsByInstallment(ctx context.Context, installmentID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE installment_id = $1;`, installmentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions for installment %s: %w", installmentID, err)
	}
	return count, nil
}

// DeleteTransaction removes a transaction row.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransactionsByAccountInTx removes every transaction linked to the
// account, directly or through its installments, within the given
// transaction.
func (r *PgxTransactionRepository) DeleteTransactionsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	query := `
		DELETE FROM transactions
		WHERE account_id = $1
		   OR installment_id IN (SELECT installment_id FROM installments WHERE account_id = $1);
	`
	if _, err := tx.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("failed to delete transactions for account %s: %w", accountID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transaction rows: %w", err)
	}
	return txns, nil
}
