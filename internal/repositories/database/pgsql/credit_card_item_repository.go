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
)

const creditCardItemColumns = `credit_card_item_id, credit_card_id, account_id, created_at, last_updated_at`

type PgxCreditCardItemRepository struct {
	BaseRepository
}

func newPgxCreditCardItemRepository(pool *pgxpool.Pool) *PgxCreditCardItemRepository {
	return &PgxCreditCardItemRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CreditCardItemRepositoryFacade = (*PgxCreditCardItemRepository)(nil)

func toModelCreditCardItem(d domain.CreditCardItem) models.CreditCardItem {
	return models.CreditCardItem{
		CreditCardItemID: d.CreditCardItemID,
		CreditCardID:     d.CreditCardID,
		AccountID:        d.AccountID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainCreditCardItem(m models.CreditCardItem) domain.CreditCardItem {
	return domain.CreditCardItem{
		CreditCardItemID: m.CreditCardItemID,
		CreditCardID:     m.CreditCardID,
		AccountID:        m.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func scanCreditCardItem(row pgx.Row) (models.CreditCardItem, error) {
	var m models.CreditCardItem
	err := row.Scan(
		&m.CreditCardItemID,
		&m.CreditCardID,
		&m.AccountID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveLink persists a new link.
func (r *PgxCreditCardItemRepository) SaveLink(ctx context.Context, item domain.CreditCardItem) error {
	m := toModelCreditCardItem(item)

	query := `
		INSERT INTO credit_card_items (` + creditCardItemColumns + `)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CreditCardItemID, m.CreditCardID, m.AccountID, m.CreatedAt, m.LastUpdatedAt,
	)
	if err != nil {
		return wrapDuplicate(err, "failed to save credit card link %s -> %s", m.CreditCardID, m.AccountID)
	}
	return nil
}

// FindLink retrieves the link for one (credit card, account) pair.
func (r *PgxCreditCardItemRepository) FindLink(ctx context.Context, creditCardID, accountID string) (*domain.CreditCardItem, error) {
	query := `SELECT ` + creditCardItemColumns + ` FROM credit_card_items
		WHERE credit_card_id = $1 AND account_id = $2;`

	m, err := scanCreditCardItem(r.Pool.QueryRow(ctx, query, creditCardID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find credit card link %s -> %s: %w", creditCardID, accountID, err)
	}

	item := toDomainCreditCardItem(m)
	return &item, nil
}

// FindLinksByCreditCard retrieves all links where the given account is the
// credit card, newest first.
func (r *PgxCreditCardItemRepository) FindLinksByCreditCard(ctx context.Context, creditCardID string) ([]domain.CreditCardItem, error) {
	query := `SELECT ` + creditCardItemColumns + ` FROM credit_card_items
		WHERE credit_card_id = $1 ORDER BY created_at DESC;`
	return r.queryLinks(ctx, query, creditCardID)
}

// FindLinksByAccount retrieves all links where the given account is the
// linked charge, newest first.
func (r *PgxCreditCardItemRepository) FindLinksByAccount(ctx context.Context, accountID string) ([]domain.CreditCardItem, error) {
	query := `SELECT ` + creditCardItemColumns + ` FROM credit_card_items
		WHERE account_id = $1 ORDER BY created_at DESC;`
	return r.queryLinks(ctx, query, accountID)
}

// DeleteLink removes one link row.
func (r *PgxCreditCardItemRepository) DeleteLink(ctx context.Context, creditCardItemID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM credit_card_items WHERE credit_card_item_id = $1;`, creditCardItemID)
	if err != nil {
		return fmt.Errorf("failed to delete credit card link %s: %w", creditCardItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteLinksByCreditCard removes every link where the account is the card.
func (r *PgxCreditCardItemRepository) DeleteLinksByCreditCard(ctx context.Context, creditCardID string) (int, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM credit_card_items WHERE credit_card_id = $1;`, creditCardID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete links for credit card %s: %w", creditCardID, err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteLinksByAccount removes every link where the account is the linked
// charge.
func (r *PgxCreditCardItemRepository) DeleteLinksByAccount(ctx context.Context, accountID string) (int, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM credit_card_items WHERE account_id = $1;`, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete links for account %s: %w", accountID, err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteLinksInvolvingAccountInTx removes every link referencing the account
// on either side, within the given transaction.
func (r *PgxCreditCardItemRepository) DeleteLinksInvolvingAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	query := `DELETE FROM credit_card_items WHERE credit_card_id = $1 OR account_id = $1;`
	if _, err := tx.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("failed to delete links involving account %s: %w", accountID, err)
	}
	return nil
}

func (r *PgxCreditCardItemRepository) queryLinks(ctx context.Context, query string, args ...any) ([]domain.CreditCardItem, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit card links: %w", err)
	}
	defer rows.Close()

	var items []domain.CreditCardItem
	for rows.Next() {
		m, err := scanCreditCardItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit card link row: %w", err)
		}
		items = append(items, toDomainCreditCardItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading credit card link rows: %w", err)
	}
	return items, nil
}
