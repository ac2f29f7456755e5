package services

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/finledger/finance_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account with its installment schedule and
	// payment progress.
	GetAccountByID(ctx context.Context, accountID string) (*domain.AccountWithSchedule, error)

	// ListAccounts retrieves a paginated account list for the filter.
	ListAccounts(ctx context.Context, userID string, req dto.ListAccountsRequest) (*dto.AccountListResponse, error)

	// FindByPeriod retrieves the user's accounts attributed to one billing
	// period, ordered by due day.
	FindByPeriod(ctx context.Context, userID string, month, year int) ([]domain.Account, error)

	// FindUnpaidByPeriod retrieves the unpaid subset of FindByPeriod.
	FindUnpaidByPeriod(ctx context.Context, userID string, month, year int) ([]domain.Account, error)

	// PeriodStatistics aggregates paid/unpaid counts and amounts for one
	// billing period.
	PeriodStatistics(ctx context.Context, userID string, month, year int) (*domain.PeriodStatistics, error)

	// LoanTerms derives the implied interest of a LOAN account from its
	// principal, installment count and fixed payment.
	LoanTerms(ctx context.Context, accountID string) (*dto.LoanTermsResponse, error)
}

// AccountWriterSvc defines lifecycle operations for account data
type AccountWriterSvc interface {
	// CreateAccount validates a declared obligation, persists it,
	// materializes its installment schedule and refreshes the affected
	// monthly summary. Installment and summary generation are best-effort.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.AccountWithSchedule, error)

	// UpdateAccount applies a partial update, regenerating the installment
	// schedule when any schedule-affecting field changed, and refreshes the
	// summaries of both the new and the previous billing period.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.AccountWithSchedule, error)

	// DeleteAccount removes the account with its installments, linked
	// transactions and credit-card links in one atomic unit, then refreshes
	// the affected summary.
	DeleteAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// MarkAccountPaid settles every unpaid installment, marks the account
	// paid and records one consolidated expense transaction.
	MarkAccountPaid(ctx context.Context, accountID, userID string, req dto.MarkAccountPaidRequest) (*dto.MarkAccountPaidResponse, error)
}

// AccountCreditCardSvc defines the credit-card association operations.
type AccountCreditCardSvc interface {
	// AssociateToCreditCard links an account to a credit card and recomputes
	// the card's installment breakdowns.
	AssociateToCreditCard(ctx context.Context, userID, creditCardID, accountID string) error

	// DisassociateFromCreditCard removes the link and recomputes the card's
	// installment breakdowns.
	DisassociateFromCreditCard(ctx context.Context, creditCardID, accountID string) error

	// CreditCardAssociatedAccounts lists the user's accounts billed through
	// the given card.
	CreditCardAssociatedAccounts(ctx context.Context, userID, creditCardID string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountCreditCardSvc
}
