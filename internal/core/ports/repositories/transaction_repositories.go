package repositories

import (
	"context"
	"time"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransactionListFilter narrows transaction listing queries. Nil fields are
// ignored.
type TransactionListFilter struct {
	Type      *domain.TransactionType
	Category  *string
	AccountID *string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves the user's transactions matching the
	// filter, newest first, with the total match count.
	ListTransactions(ctx context.Context, userID string, filter TransactionListFilter) ([]domain.Transaction, int, error)

	// FindTransactionsInRange retrieves all of a user's transactions dated
	// inside [start, end].
	FindTransactionsInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Transaction, error)

	// FindTransactionsByInstallment retrieves the transactions linked to an
	// installment.
	FindTransactionsByInstallment(ctx context.Context, installmentID string) ([]domain.Transaction, error)

	// CountTransactionsByInstallment counts transactions linked to an
	// installment. Used to enforce the one-payment-per-installment rule.
	CountTransactionsByInstallment(ctx context.Context, installmentID string) (int, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a transaction row.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionTransactionSupport defines transaction-table writes inside an
// externally managed pgx transaction.
type TransactionTransactionSupport interface {
	// DeleteTransactionsByAccountInTx removes every transaction linked to
	// the account, directly or through its installments, within the given
	// transaction.
	DeleteTransactionsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionTransactionSupport
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
