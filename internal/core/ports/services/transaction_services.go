package services

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// TransactionReaderSvc defines read operations for transactions.
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a single transaction.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves the user's transactions, filtered and
	// paginated, newest first.
	ListTransactions(ctx context.Context, userID string, req dto.ListTransactionsRequest) (*dto.TransactionPageResponse, error)

	// UserBalance computes the income/expense balance of one month.
	UserBalance(ctx context.Context, userID string, month, year *int) (*domain.UserBalance, error)

	// ExpensesByCategory groups a period's expenses by account type or
	// transaction category.
	ExpensesByCategory(ctx context.Context, userID string, req dto.ExpensesByCategoryRequest) ([]domain.ExpenseCategory, error)
}

// TransactionWriterSvc defines write operations for transactions.
type TransactionWriterSvc interface {
	// CreateIncome records an income movement after category validation.
	CreateIncome(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// CreateExpense records an expense movement. When linked to an account
	// the payment must cover the full outstanding amount; covered
	// installments and the account are settled as a side effect.
	CreateExpense(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// CreateInstallmentPayment records the expense that settles one
	// installment. At most one payment may exist per installment.
	CreateInstallmentPayment(ctx context.Context, installmentID, userID string) (*domain.Transaction, error)

	// CreateAccountPayment records the consolidated expense that settles a
	// whole account.
	CreateAccountPayment(ctx context.Context, accountID, userID string, amount money.Cents) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction and reverses the paid state it
	// caused on its linked installment or account.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionSvcFacade combines the transaction service interfaces.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}

// CategoryValidator is consulted before income/expense creation. The default
// implementation accepts any category.
type CategoryValidator interface {
	// ValidateCategoryExists rejects unknown category names for the given
	// transaction type.
	ValidateCategoryExists(ctx context.Context, name string, txnType domain.TransactionType) error
}
