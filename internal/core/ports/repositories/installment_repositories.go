package repositories

import (
	"context"
	"time"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InstallmentReader defines read operations for installment data
type InstallmentReader interface {
	// FindInstallmentByID retrieves a specific installment.
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// FindInstallmentsByAccount retrieves all installments of an account
	// ordered by number.
	FindInstallmentsByAccount(ctx context.Context, accountID string) ([]domain.Installment, error)

	// FindUnpaidInstallmentsByAccount retrieves the unpaid installments of an
	// account ordered by number.
	FindUnpaidInstallmentsByAccount(ctx context.Context, accountID string) ([]domain.Installment, error)

	// FindOverdueInstallments retrieves unpaid installments due strictly
	// before the given instant, optionally restricted to one account.
	FindOverdueInstallments(ctx context.Context, accountID *string, before time.Time) ([]domain.Installment, error)

	// FindUnpaidInstallmentsDueInRange retrieves unpaid installments of all
	// accounts owned by the user with a due date inside [start, end].
	FindUnpaidInstallmentsDueInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Installment, error)
}

// InstallmentWriter defines write operations for installment data
type InstallmentWriter interface {
	// ReplaceInstallments deletes every installment of the account and
	// inserts the new batch in one database transaction: the old complete
	// set or the new complete set is visible, never a mix.
	ReplaceInstallments(ctx context.Context, accountID string, installments []domain.Installment) error

	// SetInstallmentPaid updates the paid flag and paidAt timestamp of one
	// installment.
	SetInstallmentPaid(ctx context.Context, installmentID string, isPaid bool, paidAt *time.Time) error

	// MarkAllUnpaidPaid marks every unpaid installment of the account paid
	// with a single paidAt timestamp.
	MarkAllUnpaidPaid(ctx context.Context, accountID string, paidAt time.Time) error
}

// InstallmentTransactionSupport defines installment writes inside an
// externally managed pgx transaction.
type InstallmentTransactionSupport interface {
	// DeleteInstallmentsByAccountInTx removes all installments of the
	// account within the given transaction.
	DeleteInstallmentsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error
}

// InstallmentRepositoryFacade combines all installment-related repository interfaces.
type InstallmentRepositoryFacade interface {
	InstallmentReader
	InstallmentWriter
	InstallmentTransactionSupport
}

// InstallmentRepositoryWithTx extends InstallmentRepositoryFacade with transaction capabilities
type InstallmentRepositoryWithTx interface {
	InstallmentRepositoryFacade
	TransactionManager
}
