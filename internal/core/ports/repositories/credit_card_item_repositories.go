package repositories

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CreditCardItemReader defines read operations for credit card link data
type CreditCardItemReader interface {
	// FindLink retrieves the link for one (credit card, account) pair.
	FindLink(ctx context.Context, creditCardID, accountID string) (*domain.CreditCardItem, error)

	// FindLinksByCreditCard retrieves all links where the given account is
	// the credit card, newest first.
	FindLinksByCreditCard(ctx context.Context, creditCardID string) ([]domain.CreditCardItem, error)

	// FindLinksByAccount retrieves all links where the given account is the
	// linked charge, newest first.
	FindLinksByAccount(ctx context.Context, accountID string) ([]domain.CreditCardItem, error)
}

// CreditCardItemWriter defines write operations for credit card link data
type CreditCardItemWriter interface {
	// SaveLink persists a new link.
	SaveLink(ctx context.Context, item domain.CreditCardItem) error

	// DeleteLink removes one link row.
	DeleteLink(ctx context.Context, creditCardItemID string) error

	// DeleteLinksByCreditCard removes every link where the account is the
	// card. Returns the number of rows removed.
	DeleteLinksByCreditCard(ctx context.Context, creditCardID string) (int, error)

	// DeleteLinksByAccount removes every link where the account is the
	// linked charge. Returns the number of rows removed.
	DeleteLinksByAccount(ctx context.Context, accountID string) (int, error)
}

// CreditCardItemTransactionSupport defines link deletions inside an
// externally managed pgx transaction.
type CreditCardItemTransactionSupport interface {
	// DeleteLinksInvolvingAccountInTx removes every link referencing the
	// account on either side, within the given transaction.
	DeleteLinksInvolvingAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error
}

// CreditCardItemRepositoryFacade combines the credit card link repository interfaces.
type CreditCardItemRepositoryFacade interface {
	CreditCardItemReader
	CreditCardItemWriter
	CreditCardItemTransactionSupport
}
