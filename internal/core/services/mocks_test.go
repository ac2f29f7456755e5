package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountListFilter) ([]domain.Account, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Int(1), args.Error(2)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountPaid(ctx context.Context, accountID string, isPaid bool) error {
	args := m.Called(ctx, accountID, isPaid)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	args := m.Called(ctx, tx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockAccountRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAccountRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock InstallmentRepository ---

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindInstallmentsByAccount(ctx context.Context, accountID string) ([]domain.Installment, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindUnpaidInstallmentsByAccount(ctx context.Context, accountID string) ([]domain.Installment, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindOverdueInstallments(ctx context.Context, accountID *string, before time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, accountID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindUnpaidInstallmentsDueInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Installment, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) ReplaceInstallments(ctx context.Context, accountID string, installments []domain.Installment) error {
	args := m.Called(ctx, accountID, installments)
	return args.Error(0)
}

func (m *MockInstallmentRepository) SetInstallmentPaid(ctx context.Context, installmentID string, isPaid bool, paidAt *time.Time) error {
	args := m.Called(ctx, installmentID, isPaid, paidAt)
	return args.Error(0)
}

func (m *MockInstallmentRepository) MarkAllUnpaidPaid(ctx context.Context, accountID string, paidAt time.Time) error {
	args := m.Called(ctx, accountID, paidAt)
	return args.Error(0)
}

func (m *MockInstallmentRepository) DeleteInstallmentsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	args := m.Called(ctx, tx, accountID)
	return args.Error(0)
}

func (m *MockInstallmentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockInstallmentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInstallmentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, filter portsrepo.TransactionListFilter) ([]domain.Transaction, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Int(1), args.Error(2)
}

func (m *MockTransactionRepository) FindTransactionsInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionsByInstallment(ctx context.Context, installmentID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountTransactionsByInstallment(ctx context.Context, installmentID string) (int, error) {
	args := m.Called(ctx, installmentID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransactionsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	args := m.Called(ctx, tx, accountID)
	return args.Error(0)
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock SummaryRepository ---

type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) FindSummaryByUserAndPeriod(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

func (m *MockSummaryRepository) UpsertSummary(ctx context.Context, summary domain.MonthlySummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// --- Mock CreditCardItemRepository ---

type MockCreditCardItemRepository struct {
	mock.Mock
}

func (m *MockCreditCardItemRepository) FindLink(ctx context.Context, creditCardID, accountID string) (*domain.CreditCardItem, error) {
	args := m.Called(ctx, creditCardID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditCardItem), args.Error(1)
}

func (m *MockCreditCardItemRepository) FindLinksByCreditCard(ctx context.Context, creditCardID string) ([]domain.CreditCardItem, error) {
	args := m.Called(ctx, creditCardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditCardItem), args.Error(1)
}

func (m *MockCreditCardItemRepository) FindLinksByAccount(ctx context.Context, accountID string) ([]domain.CreditCardItem, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditCardItem), args.Error(1)
}

func (m *MockCreditCardItemRepository) SaveLink(ctx context.Context, item domain.CreditCardItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCreditCardItemRepository) DeleteLink(ctx context.Context, creditCardItemID string) error {
	args := m.Called(ctx, creditCardItemID)
	return args.Error(0)
}

func (m *MockCreditCardItemRepository) DeleteLinksByCreditCard(ctx context.Context, creditCardID string) (int, error) {
	args := m.Called(ctx, creditCardID)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditCardItemRepository) DeleteLinksByAccount(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockCreditCardItemRepository) DeleteLinksInvolvingAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	args := m.Called(ctx, tx, accountID)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock SummarySvc ---

type MockSummarySvc struct {
	mock.Mock
}

func (m *MockSummarySvc) GetSummary(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

func (m *MockSummarySvc) Recalculate(ctx context.Context, userID string, month, year int) (*domain.MonthlySummary, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlySummary), args.Error(1)
}

func (m *MockSummarySvc) RecalculateMonths(ctx context.Context, userID string, periods []domain.Period) error {
	args := m.Called(ctx, userID, periods)
	return args.Error(0)
}

func (m *MockSummarySvc) RecalculateForAccount(ctx context.Context, accountID string, periods []domain.Period) error {
	args := m.Called(ctx, accountID, periods)
	return args.Error(0)
}

// --- Mock TransactionWriterSvc ---

type MockTransactionWriterSvc struct {
	mock.Mock
}

func (m *MockTransactionWriterSvc) CreateIncome(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionWriterSvc) CreateExpense(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionWriterSvc) CreateInstallmentPayment(ctx context.Context, installmentID, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, installmentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionWriterSvc) CreateAccountPayment(ctx context.Context, accountID, userID string, amount money.Cents) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionWriterSvc) DeleteTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}
