package services

import (
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/platform/config"
)

// NewServiceContainer wires the service layer in dependency order: summary
// first, then transactions, installments and finally the account lifecycle
// that orchestrates all of them.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config, aggregator portssvc.AggregationProviderSvc) *portssvc.ServiceContainer {
	summarySvc := NewSummaryService(repos.SummaryRepo, repos.TransactionRepo, repos.InstallmentRepo, repos.AccountRepo)
	categorySvc := NewCategoryService()
	transactionSvc := NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.InstallmentRepo, summarySvc, categorySvc)
	installmentSvc := NewInstallmentService(repos.InstallmentRepo, repos.AccountRepo, transactionSvc, summarySvc)
	creditCardSvc := NewCreditCardItemService(repos.CreditCardItemRepo, repos.AccountRepo)
	accountSvc := NewAccountService(
		repos.AccountRepo,
		repos.InstallmentRepo,
		repos.TransactionRepo,
		repos.CreditCardItemRepo,
		creditCardSvc,
		installmentSvc,
		transactionSvc,
		summarySvc,
	)
	userSvc := NewUserService(repos.UserRepo)
	authSvc := NewAuthService(repos.UserRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Installment:    installmentSvc,
		Transaction:    transactionSvc,
		Summary:        summarySvc,
		CreditCardItem: creditCardSvc,
		User:           userSvc,
		Auth:           authSvc,
		Aggregation:    aggregator,
	}
}
