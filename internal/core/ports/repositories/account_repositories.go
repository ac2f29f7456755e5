package repositories

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountListFilter narrows account listing queries. Nil fields are ignored.
type AccountListFilter struct {
	UserID         *string
	Type           *domain.AccountType
	IsPaid         *bool
	ReferenceMonth *int
	ReferenceYear  *int
	HasInstallments bool
	CreditCardID   *string
	Limit          int
	Offset         int
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves accounts matching the filter, together with the
	// total match count for pagination.
	ListAccounts(ctx context.Context, filter AccountListFilter) ([]domain.Account, int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// SetAccountPaid updates only the paid flag (and clears the preview flag
	// when marking paid).
	SetAccountPaid(ctx context.Context, accountID string, isPaid bool) error
}

// AccountTransactionSupport defines account writes that participate in an
// externally managed pgx transaction.
type AccountTransactionSupport interface {
	// DeleteAccountInTx removes the account row within the given transaction.
	DeleteAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
