package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/finledger/finance_ledger_app/internal/core/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	transactionRepo *MockTransactionRepository
	accountRepo     *MockAccountRepository
	installmentRepo *MockInstallmentRepository
	summarySvc      *MockSummarySvc
	service         *services.TransactionService
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.transactionRepo = new(MockTransactionRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.installmentRepo = new(MockInstallmentRepository)
	suite.summarySvc = new(MockSummarySvc)
	suite.service = services.NewTransactionService(
		suite.transactionRepo,
		suite.accountRepo,
		suite.installmentRepo,
		suite.summarySvc,
		services.NewCategoryService(),
	)
}

func (suite *TransactionServiceTestSuite) expectSummaryRecalc() {
	suite.summarySvc.On("Recalculate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.MonthlySummary{}, nil).Maybe()
}

func (suite *TransactionServiceTestSuite) TestCreateIncome_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.expectSummaryRecalc()

	suite.transactionRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Type == domain.Income && t.Value == 350_000 && t.UserID == userID
	})).Return(nil).Once()

	txn, err := suite.service.CreateIncome(ctx, userID, dto.CreateTransactionRequest{
		Value:       350_000,
		Description: "Salário",
		Category:    "SALARY",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.Income, txn.Type)
	suite.Equal(money.Cents(350_000), txn.Value)
	suite.transactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateExpense_InsufficientPaymentRejected() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, UserID: userID}
	unpaid := []domain.Installment{{Amount: 6000}, {Amount: 6000}}

	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.installmentRepo.On("FindUnpaidInstallmentsByAccount", ctx, accountID).Return(unpaid, nil).Once()

	_, err := suite.service.CreateExpense(ctx, userID, dto.CreateTransactionRequest{
		Value:       10_000,
		Description: "Pagamento parcial",
		AccountID:   &accountID,
	})

	suite.Require().Error(err)
	code, _ := apperrors.CodeOf(err)
	suite.Equal(apperrors.CodeInsufficientPayment, code)
	suite.transactionRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *TransactionServiceTestSuite) TestCreateExpense_FullCoverageSettlesAccount() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	total := money.Cents(12_000)
	account := &domain.Account{AccountID: accountID, UserID: userID, TotalAmount: &total}
	unpaid := []domain.Installment{{Amount: 6000}, {Amount: 6000}}
	suite.expectSummaryRecalc()

	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.installmentRepo.On("FindUnpaidInstallmentsByAccount", ctx, accountID).Return(unpaid, nil).Once()
	suite.transactionRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.installmentRepo.On("MarkAllUnpaidPaid", ctx, accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.accountRepo.On("SetAccountPaid", ctx, accountID, true).Return(nil).Once()

	txn, err := suite.service.CreateExpense(ctx, userID, dto.CreateTransactionRequest{
		Value:       12_000,
		Description: "Quitação",
		AccountID:   &accountID,
	})

	suite.Require().NoError(err)
	suite.Equal(money.Cents(12_000), txn.Value)
	suite.installmentRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateExpense_PaymentBelowAccountTotalRejected() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	total := money.Cents(12_000)
	account := &domain.Account{AccountID: accountID, UserID: userID, TotalAmount: &total}
	unpaid := []domain.Installment{{Amount: 6000}}

	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.installmentRepo.On("FindUnpaidInstallmentsByAccount", ctx, accountID).Return(unpaid, nil).Once()

	// covers the unpaid installments but not the declared total
	_, err := suite.service.CreateExpense(ctx, userID, dto.CreateTransactionRequest{
		Value:       6000,
		Description: "Pagamento parcial",
		AccountID:   &accountID,
	})

	suite.Require().Error(err)
	code, _ := apperrors.CodeOf(err)
	suite.Equal(apperrors.CodeInsufficientPayment, code)
	suite.transactionRepo.AssertNotCalled(suite.T(), "SaveTransaction")
	suite.accountRepo.AssertNotCalled(suite.T(), "SetAccountPaid")
}

func (suite *TransactionServiceTestSuite) TestCreateExpense_NoDeclaredTotalLeavesAccountOpen() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, UserID: userID}
	unpaid := []domain.Installment{{Amount: 6000}, {Amount: 6000}}
	suite.expectSummaryRecalc()

	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.installmentRepo.On("FindUnpaidInstallmentsByAccount", ctx, accountID).Return(unpaid, nil).Once()
	suite.transactionRepo.On("SaveTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.installmentRepo.On("MarkAllUnpaidPaid", ctx, accountID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	txn, err := suite.service.CreateExpense(ctx, userID, dto.CreateTransactionRequest{
		Value:       12_000,
		Description: "Quitação das parcelas",
		AccountID:   &accountID,
	})

	suite.Require().NoError(err)
	suite.Equal(money.Cents(12_000), txn.Value)
	suite.installmentRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertNotCalled(suite.T(), "SetAccountPaid")
}

func (suite *TransactionServiceTestSuite) TestCreateExpense_AlreadyPaidAccountRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, IsPaid: true}

	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	_, err := suite.service.CreateExpense(ctx, uuid.NewString(), dto.CreateTransactionRequest{
		Value:       5000,
		Description: "Pagamento",
		AccountID:   &accountID,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *TransactionServiceTestSuite) TestCreateInstallmentPayment_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	installmentID := uuid.NewString()
	accountID := uuid.NewString()
	installment := &domain.Installment{
		InstallmentID: installmentID,
		AccountID:     accountID,
		Number:        3,
		Amount:        4500,
	}
	suite.expectSummaryRecalc()

	suite.installmentRepo.On("FindInstallmentByID", ctx, installmentID).Return(installment, nil).Once()
	suite.transactionRepo.On("CountTransactionsByInstallment", ctx, installmentID).Return(0, nil).Once()
	suite.transactionRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Category == domain.CategoryInstallmentPayment &&
			t.Description == "Pagamento da parcela 3" &&
			t.Value == 4500 &&
			t.InstallmentID != nil && *t.InstallmentID == installmentID
	})).Return(nil).Once()
	suite.installmentRepo.On("SetInstallmentPaid", ctx, installmentID, true, mock.AnythingOfType("*time.Time")).Return(nil).Once()
	suite.installmentRepo.On("FindUnpaidInstallmentsByAccount", ctx, accountID).Return([]domain.Installment{}, nil).Once()
	suite.accountRepo.On("SetAccountPaid", ctx, accountID, true).Return(nil).Once()

	txn, err := suite.service.CreateInstallmentPayment(ctx, installmentID, userID)

	suite.Require().NoError(err)
	suite.Equal(money.Cents(4500), txn.Value)
	suite.transactionRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateInstallmentPayment_AlreadyPaidRejected() {
	ctx := context.Background()
	installmentID := uuid.NewString()
	installment := &domain.Installment{InstallmentID: installmentID, IsPaid: true}

	suite.installmentRepo.On("FindInstallmentByID", ctx, installmentID).Return(installment, nil).Once()

	_, err := suite.service.CreateInstallmentPayment(ctx, installmentID, uuid.NewString())

	suite.Require().Error(err)
	code, _ := apperrors.CodeOf(err)
	suite.Equal(apperrors.CodeInstallmentAlreadyPaid, code)
}

func (suite *TransactionServiceTestSuite) TestCreateInstallmentPayment_DuplicateRejected() {
	ctx := context.Background()
	installmentID := uuid.NewString()
	installment := &domain.Installment{InstallmentID: installmentID, AccountID: uuid.NewString()}

	suite.installmentRepo.On("FindInstallmentByID", ctx, installmentID).Return(installment, nil).Once()
	suite.transactionRepo.On("CountTransactionsByInstallment", ctx, installmentID).Return(1, nil).Once()

	_, err := suite.service.CreateInstallmentPayment(ctx, installmentID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.transactionRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReversesInstallmentAndAccount() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	installmentID := uuid.NewString()
	accountID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID: transactionID,
		UserID:        uuid.NewString(),
		AccountID:     &accountID,
		InstallmentID: &installmentID,
		Type:          domain.Expense,
		Category:      domain.CategoryInstallmentPayment,
		Date:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	suite.expectSummaryRecalc()

	account := &domain.Account{AccountID: accountID, IsPaid: true}
	schedule := []domain.Installment{
		{InstallmentID: installmentID, AccountID: accountID, Number: 1, IsPaid: false},
		{AccountID: accountID, Number: 2, IsPaid: true},
	}

	suite.transactionRepo.On("FindTransactionByID", ctx, transactionID).Return(txn, nil).Once()
	suite.transactionRepo.On("DeleteTransaction", ctx, transactionID).Return(nil).Once()
	suite.installmentRepo.On("SetInstallmentPaid", ctx, installmentID, false, (*time.Time)(nil)).Return(nil).Once()
	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.installmentRepo.On("FindInstallmentsByAccount", ctx, accountID).Return(schedule, nil).Once()
	suite.accountRepo.On("SetAccountPaid", ctx, accountID, false).Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, transactionID)

	suite.Require().NoError(err)
	suite.installmentRepo.AssertExpectations(suite.T())
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_ReopensSettledAccountWithoutInstallments() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	accountID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID: transactionID,
		UserID:        uuid.NewString(),
		AccountID:     &accountID,
		Type:          domain.Expense,
		Category:      "MERCADO",
		Date:          time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	account := &domain.Account{AccountID: accountID, IsPaid: true}
	suite.expectSummaryRecalc()

	suite.transactionRepo.On("FindTransactionByID", ctx, transactionID).Return(txn, nil).Once()
	suite.transactionRepo.On("DeleteTransaction", ctx, transactionID).Return(nil).Once()
	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.installmentRepo.On("FindInstallmentsByAccount", ctx, accountID).Return([]domain.Installment{}, nil).Once()
	suite.accountRepo.On("SetAccountPaid", ctx, accountID, false).Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, transactionID)

	suite.Require().NoError(err)
	suite.accountRepo.AssertExpectations(suite.T())
	suite.installmentRepo.AssertNotCalled(suite.T(), "SetInstallmentPaid")
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_FullyPaidScheduleKeepsAccountSettled() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	accountID := uuid.NewString()
	txn := &domain.Transaction{
		TransactionID: transactionID,
		UserID:        uuid.NewString(),
		AccountID:     &accountID,
		Type:          domain.Expense,
		Category:      domain.CategoryAccountPayment,
		Date:          time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	account := &domain.Account{AccountID: accountID, IsPaid: true}
	schedule := []domain.Installment{
		{AccountID: accountID, Number: 1, IsPaid: true},
		{AccountID: accountID, Number: 2, IsPaid: true},
	}
	suite.expectSummaryRecalc()

	suite.transactionRepo.On("FindTransactionByID", ctx, transactionID).Return(txn, nil).Once()
	suite.transactionRepo.On("DeleteTransaction", ctx, transactionID).Return(nil).Once()
	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.installmentRepo.On("FindInstallmentsByAccount", ctx, accountID).Return(schedule, nil).Once()

	err := suite.service.DeleteTransaction(ctx, transactionID)

	suite.Require().NoError(err)
	suite.accountRepo.AssertNotCalled(suite.T(), "SetAccountPaid")
}

func (suite *TransactionServiceTestSuite) TestUserBalance_ComputesTotals() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	month, year := 3, 2025

	txns := []domain.Transaction{
		{Type: domain.Income, Value: 500_000},
		{Type: domain.Expense, Value: 100_000, AccountID: &accountID},
		{Type: domain.Expense, Value: 50_000},
	}
	installmentAmount := money.Cents(100_000)
	accounts := []domain.Account{
		{Type: domain.Fixed, InstallmentAmount: &installmentAmount},
		{Type: domain.Loan, InstallmentAmount: &installmentAmount},
	}

	suite.transactionRepo.On("FindTransactionsInRange", ctx, userID, mock.Anything, mock.Anything).Return(txns, nil).Once()
	suite.accountRepo.On("ListAccounts", ctx, mock.Anything).Return(accounts, 2, nil).Once()

	balance, err := suite.service.UserBalance(ctx, userID, &month, &year)

	suite.Require().NoError(err)
	suite.Equal(money.Cents(500_000), balance.Income)
	suite.Equal(money.Cents(150_000), balance.Expense)
	suite.Equal(money.Cents(100_000), balance.LinkedExpenses)
	suite.Equal(money.Cents(50_000), balance.StandaloneExpenses)
	suite.Equal(money.Cents(350_000), balance.Balance)
	suite.Equal(money.Cents(100_000), balance.FixedAccountsTotal)
	suite.Equal(money.Cents(100_000), balance.LoanAccountsTotal)
	suite.Equal(money.Cents(200_000), balance.TotalAccounts)
	suite.Equal(3, balance.Period.Month)
}

func (suite *TransactionServiceTestSuite) TestExpensesByCategory_GroupsByAccountTypeAndCategory() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	month, year := 2, 2025

	txns := []domain.Transaction{
		{Type: domain.Expense, Value: 30_000, AccountID: &accountID},
		{Type: domain.Expense, Value: 10_000, Category: "LAZER"},
		{Type: domain.Income, Value: 99_000},
	}
	account := &domain.Account{AccountID: accountID, Type: domain.Fixed}

	suite.transactionRepo.On("FindTransactionsInRange", ctx, userID, mock.Anything, mock.Anything).Return(txns, nil).Once()
	suite.accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	result, err := suite.service.ExpensesByCategory(ctx, userID, dto.ExpensesByCategoryRequest{Month: &month, Year: &year})

	suite.Require().NoError(err)
	suite.Len(result, 2)

	byCategory := make(map[string]domain.ExpenseCategory)
	for _, slice := range result {
		byCategory[slice.Category] = slice
	}
	suite.Equal(money.Cents(30_000), byCategory["FIXED"].Value)
	suite.Equal(domain.SourceAccount, byCategory["FIXED"].Source)
	suite.Equal("75.00", byCategory["FIXED"].Percentage)
	suite.Equal(money.Cents(10_000), byCategory["LAZER"].Value)
	suite.Equal(domain.SourceTransaction, byCategory["LAZER"].Source)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
