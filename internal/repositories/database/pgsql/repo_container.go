package pgsql

import (
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	installmentRepo := newPgxInstallmentRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	summaryRepo := newPgxSummaryRepository(dbPool)
	creditCardItemRepo := newPgxCreditCardItemRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:        accountRepo,
		InstallmentRepo:    installmentRepo,
		TransactionRepo:    transactionRepo,
		SummaryRepo:        summaryRepo,
		CreditCardItemRepo: creditCardItemRepo,
		UserRepo:           userRepo,
	}
}
