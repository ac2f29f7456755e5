package services

import (
	"context"
	"time"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// GenerateInstallmentsInput carries the parameters of one schedule
// generation run. Amount is interpreted by the strategy: the total to split
// for the even-split strategy, the exact per-installment amount for the
// fixed-amount strategy.
type GenerateInstallmentsInput struct {
	AccountID string
	Amount    money.Cents
	Count     int
	StartDate time.Time
	DueDay    int
}

// InstallmentReaderSvc defines read operations for installments.
type InstallmentReaderSvc interface {
	// GetInstallmentByID retrieves a single installment.
	GetInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// FindByAccount retrieves an account's installments, paginated.
	FindByAccount(ctx context.Context, accountID string, page dto.PageRequest) (*dto.InstallmentPageResponse, error)

	// FindByAccountAll retrieves all installments of an account ordered by number.
	FindByAccountAll(ctx context.Context, accountID string) ([]domain.Installment, error)

	// FindUnpaidByAccount retrieves an account's unpaid installments, paginated.
	FindUnpaidByAccount(ctx context.Context, accountID string, page dto.PageRequest) (*dto.InstallmentPageResponse, error)

	// FindOverdue retrieves unpaid installments already past due, optionally
	// restricted to one account.
	FindOverdue(ctx context.Context, accountID *string, page dto.PageRequest) (*dto.InstallmentPageResponse, error)
}

// InstallmentWriterSvc defines generation and payment operations.
type InstallmentWriterSvc interface {
	// GenerateFromTotal materializes the schedule by splitting a total
	// evenly across the installments (remainder on the last one).
	GenerateFromTotal(ctx context.Context, input GenerateInstallmentsInput) ([]domain.Installment, error)

	// GenerateFromAmount materializes the schedule giving every installment
	// exactly the declared amount (FIXED and LOAN accounts).
	GenerateFromAmount(ctx context.Context, input GenerateInstallmentsInput) ([]domain.Installment, error)

	// MarkPaid settles one installment: creates the linked expense
	// transaction, flips the paid state and refreshes the month's summary.
	MarkPaid(ctx context.Context, installmentID, userID string) (*dto.InstallmentPaymentResponse, error)

	// MarkUnpaid clears the paid state of one installment. No transaction
	// side effects.
	MarkUnpaid(ctx context.Context, installmentID string) (*domain.Installment, error)

	// MarkAllUnpaidPaid settles every unpaid installment of the account in
	// one batch with a single timestamp.
	MarkAllUnpaidPaid(ctx context.Context, accountID string) error

	// DeleteInstallment always fails: single installments are never removed,
	// schedules are only replaced whole.
	DeleteInstallment(ctx context.Context, installmentID string) error
}

// InstallmentSvcFacade combines the installment service interfaces.
type InstallmentSvcFacade interface {
	InstallmentReaderSvc
	InstallmentWriterSvc
}
