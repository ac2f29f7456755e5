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
	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/core/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

type InstallmentServiceTestSuite struct {
	suite.Suite
	installmentRepo *MockInstallmentRepository
	accountRepo     *MockAccountRepository
	transactionSvc  *MockTransactionWriterSvc
	summarySvc      *MockSummarySvc
	service         *services.InstallmentService
}

func (suite *InstallmentServiceTestSuite) SetupTest() {
	suite.installmentRepo = new(MockInstallmentRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.transactionSvc = new(MockTransactionWriterSvc)
	suite.summarySvc = new(MockSummarySvc)
	suite.service = services.NewInstallmentService(suite.installmentRepo, suite.accountRepo, suite.transactionSvc, suite.summarySvc)
}

func (suite *InstallmentServiceTestSuite) TestGenerateFromTotal_SplitsWithRemainderOnLast() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.installmentRepo.On("ReplaceInstallments", ctx, accountID, mock.MatchedBy(func(batch []domain.Installment) bool {
		if len(batch) != 3 {
			return false
		}
		return batch[0].Amount == 3333 && batch[1].Amount == 3333 && batch[2].Amount == 3334
	})).Return(nil).Once()

	installments, err := suite.service.GenerateFromTotal(ctx, portssvc.GenerateInstallmentsInput{
		AccountID: accountID,
		Amount:    10_000,
		Count:     3,
		StartDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		DueDay:    20,
	})

	suite.Require().NoError(err)
	suite.Require().Len(installments, 3)

	var total money.Cents
	for i, ins := range installments {
		total += ins.Amount
		suite.Equal(i+1, ins.Number)
		suite.Equal(accountID, ins.AccountID)
		suite.False(ins.IsPaid)
	}
	suite.Equal(money.Cents(10_000), total)

	suite.Equal(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	suite.Equal(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
	suite.Equal(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), installments[2].DueDate)
	suite.installmentRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestGenerateFromTotal_RejectsZeroCount() {
	_, err := suite.service.GenerateFromTotal(context.Background(), portssvc.GenerateInstallmentsInput{
		AccountID: uuid.NewString(),
		Amount:    5000,
		Count:     0,
		StartDate: time.Now(),
		DueDay:    10,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.installmentRepo.AssertNotCalled(suite.T(), "ReplaceInstallments")
}

func (suite *InstallmentServiceTestSuite) TestGenerateFromAmount_EveryInstallmentDeclaredAmount() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.installmentRepo.On("ReplaceInstallments", ctx, accountID, mock.MatchedBy(func(batch []domain.Installment) bool {
		for _, ins := range batch {
			if ins.Amount != 9000 {
				return false
			}
		}
		return len(batch) == 12
	})).Return(nil).Once()

	installments, err := suite.service.GenerateFromAmount(ctx, portssvc.GenerateInstallmentsInput{
		AccountID: accountID,
		Amount:    9000,
		Count:     12,
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDay:    10,
	})

	suite.Require().NoError(err)
	suite.Require().Len(installments, 12)
	suite.Equal(1, installments[0].ReferenceMonth)
	suite.Equal(12, installments[11].ReferenceMonth)
	suite.Equal(2025, installments[11].ReferenceYear)
}

func (suite *InstallmentServiceTestSuite) TestMarkPaid_DelegatesToPaymentAndReloads() {
	ctx := context.Background()
	installmentID := uuid.NewString()
	userID := uuid.NewString()
	accountID := uuid.NewString()

	paidAt := time.Now().UTC()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		AccountID:     &accountID,
		InstallmentID: &installmentID,
		Type:          domain.Expense,
		Value:         5000,
	}
	installment := &domain.Installment{
		InstallmentID: installmentID,
		AccountID:     accountID,
		Number:        2,
		Amount:        5000,
		IsPaid:        true,
		PaidAt:        &paidAt,
		DueDate:       time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	}

	suite.transactionSvc.On("CreateInstallmentPayment", ctx, installmentID, userID).Return(txn, nil).Once()
	suite.installmentRepo.On("FindInstallmentByID", ctx, installmentID).Return(installment, nil).Once()

	resp, err := suite.service.MarkPaid(ctx, installmentID, userID)

	suite.Require().NoError(err)
	suite.True(resp.Installment.IsPaid)
	suite.Equal(int64(5000), resp.Transaction.Value)
	suite.transactionSvc.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestMarkUnpaid_ReopensAccount() {
	ctx := context.Background()
	installmentID := uuid.NewString()
	accountID := uuid.NewString()
	paidAt := time.Now().UTC()
	installment := &domain.Installment{
		InstallmentID:  installmentID,
		AccountID:      accountID,
		IsPaid:         true,
		PaidAt:         &paidAt,
		ReferenceMonth: 4,
		ReferenceYear:  2025,
	}

	suite.installmentRepo.On("FindInstallmentByID", ctx, installmentID).Return(installment, nil).Once()
	suite.installmentRepo.On("SetInstallmentPaid", ctx, installmentID, false, (*time.Time)(nil)).Return(nil).Once()
	suite.accountRepo.On("SetAccountPaid", ctx, accountID, false).Return(nil).Once()
	suite.summarySvc.On("RecalculateForAccount", ctx, accountID, []domain.Period{{Month: 4, Year: 2025}}).Return(nil).Once()

	result, err := suite.service.MarkUnpaid(ctx, installmentID)

	suite.Require().NoError(err)
	suite.False(result.IsPaid)
	suite.Nil(result.PaidAt)
	suite.accountRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestDeleteInstallment_AlwaysRejected() {
	err := suite.service.DeleteInstallment(context.Background(), uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	code, ok := apperrors.CodeOf(err)
	suite.True(ok)
	suite.Equal(apperrors.CodeInstallmentDeletionForbidden, code)
}

func (suite *InstallmentServiceTestSuite) TestFindByAccount_Paginates() {
	ctx := context.Background()
	accountID := uuid.NewString()

	installments := make([]domain.Installment, 5)
	for i := range installments {
		installments[i] = domain.Installment{InstallmentID: uuid.NewString(), AccountID: accountID, Number: i + 1, Amount: 1000}
	}
	suite.installmentRepo.On("FindInstallmentsByAccount", ctx, accountID).Return(installments, nil).Once()

	page, err := suite.service.FindByAccount(ctx, accountID, dto.PageRequest{Limit: 2, Page: 2})

	suite.Require().NoError(err)
	suite.Len(page.Docs, 2)
	suite.Equal(3, page.Docs[0].Number)
	suite.Equal(5, page.Total)
	suite.Equal(3, page.TotalPages)
	suite.True(page.HasNextPage)
	suite.True(page.HasPrevPage)
}

func TestInstallmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstallmentServiceTestSuite))
}
