package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
	"github.com/finledger/finance_ledger_app/internal/handlers"
	"github.com/finledger/finance_ledger_app/internal/middleware"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.AccountWithSchedule, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountWithSchedule), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string, req dto.ListAccountsRequest) (*dto.AccountListResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AccountListResponse), args.Error(1)
}

func (m *MockAccountService) FindByPeriod(ctx context.Context, userID string, month, year int) ([]domain.Account, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) FindUnpaidByPeriod(ctx context.Context, userID string, month, year int) ([]domain.Account, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) PeriodStatistics(ctx context.Context, userID string, month, year int) (*domain.PeriodStatistics, error) {
	args := m.Called(ctx, userID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodStatistics), args.Error(1)
}

func (m *MockAccountService) LoanTerms(ctx context.Context, accountID string) (*dto.LoanTermsResponse, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoanTermsResponse), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.AccountWithSchedule, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountWithSchedule), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.AccountWithSchedule, error) {
	args := m.Called(ctx, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountWithSchedule), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) MarkAccountPaid(ctx context.Context, accountID, userID string, req dto.MarkAccountPaidRequest) (*dto.MarkAccountPaidResponse, error) {
	args := m.Called(ctx, accountID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MarkAccountPaidResponse), args.Error(1)
}

func (m *MockAccountService) AssociateToCreditCard(ctx context.Context, userID, creditCardID, accountID string) error {
	args := m.Called(ctx, userID, creditCardID, accountID)
	return args.Error(0)
}

func (m *MockAccountService) DisassociateFromCreditCard(ctx context.Context, creditCardID, accountID string) error {
	args := m.Called(ctx, creditCardID, accountID)
	return args.Error(0)
}

func (m *MockAccountService) CreditCardAssociatedAccounts(ctx context.Context, userID, creditCardID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID, creditCardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock InstallmentService ---
type MockInstallmentService struct {
	mock.Mock
}

func (m *MockInstallmentService) GetInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentService) FindByAccount(ctx context.Context, accountID string, page dto.PageRequest) (*dto.InstallmentPageResponse, error) {
	args := m.Called(ctx, accountID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InstallmentPageResponse), args.Error(1)
}

func (m *MockInstallmentService) FindByAccountAll(ctx context.Context, accountID string) ([]domain.Installment, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentService) FindUnpaidByAccount(ctx context.Context, accountID string, page dto.PageRequest) (*dto.InstallmentPageResponse, error) {
	args := m.Called(ctx, accountID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InstallmentPageResponse), args.Error(1)
}

func (m *MockInstallmentService) FindOverdue(ctx context.Context, accountID *string, page dto.PageRequest) (*dto.InstallmentPageResponse, error) {
	args := m.Called(ctx, accountID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InstallmentPageResponse), args.Error(1)
}

func (m *MockInstallmentService) GenerateFromTotal(ctx context.Context, input portssvc.GenerateInstallmentsInput) ([]domain.Installment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentService) GenerateFromAmount(ctx context.Context, input portssvc.GenerateInstallmentsInput) ([]domain.Installment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockInstallmentService) MarkPaid(ctx context.Context, installmentID, userID string) (*dto.InstallmentPaymentResponse, error) {
	args := m.Called(ctx, installmentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InstallmentPaymentResponse), args.Error(1)
}

func (m *MockInstallmentService) MarkUnpaid(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentService) MarkAllUnpaidPaid(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockInstallmentService) DeleteInstallment(ctx context.Context, installmentID string) error {
	args := m.Called(ctx, installmentID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.InstallmentSvcFacade = (*MockInstallmentService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router                 *gin.Engine
	mockAccountService     *MockAccountService
	mockInstallmentService *MockInstallmentService
	jwtSecret              string
}

func centsValue(v int64) *money.Cents {
	c := money.Cents(v)
	return &c
}

func intPtr(v int) *int {
	return &v
}

// generateTestToken creates a dummy JWT for testing.
func (suite *AccountHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "fla-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) authorizedRequest(method, url string, body any) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.testUserID()))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (suite *AccountHandlerTestSuite) testUserID() string {
	return "8b9f2a34-0000-4000-8000-000000000001"
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockAccountService = new(MockAccountService)
	suite.mockInstallmentService = new(MockInstallmentService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService, suite.mockInstallmentService)
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestGetAccount_Success() {
	accountID := uuid.NewString()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expected := &domain.AccountWithSchedule{
		Account: domain.Account{
			AccountID:         accountID,
			UserID:            suite.testUserID(),
			Name:              "Car financing",
			Type:              domain.Loan,
			TotalAmount:       centsValue(1200000),
			InstallmentAmount: centsValue(110000),
			Installments:      intPtr(12),
			StartDate:         start,
			DueDay:            10,
			ReferenceMonth:    3,
			ReferenceYear:     2026,
		},
		InstallmentList: []domain.Installment{
			{
				InstallmentID:  uuid.NewString(),
				AccountID:      accountID,
				Number:         1,
				DueDate:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
				Amount:         110000,
				IsPaid:         true,
				ReferenceMonth: 3,
				ReferenceYear:  2026,
			},
		},
		AmountPaid:      110000,
		RemainingAmount: 1210000,
	}

	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(expected, nil).Once()

	req := suite.authorizedRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.AccountWithScheduleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(accountID, body.AccountID)
	suite.Equal("Car financing", body.Name)
	suite.Equal(int64(110000), body.AmountPaid)
	suite.Equal(int64(1210000), body.RemainingAmount)
	suite.Len(body.InstallmentList, 1)
	suite.True(body.InstallmentList[0].IsPaid)

	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, apperrors.New(apperrors.ErrNotFound, apperrors.CodeAccountNotFound, "account %s not found", accountID)).Once()

	req := suite.authorizedRequest(http.MethodGet, "/api/v1/accounts/"+accountID, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)

	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(apperrors.CodeAccountNotFound, body["code"])

	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	accountID := uuid.NewString()
	reqBody := dto.CreateAccountRequest{
		Name:         "Internet",
		Type:         domain.Fixed,
		TotalAmount:  int64Ptr(12000),
		Installments: intPtr(12),
		StartDate:    "2026-01-15",
		DueDay:       15,
	}

	created := &domain.AccountWithSchedule{
		Account: domain.Account{
			AccountID:      accountID,
			UserID:         suite.testUserID(),
			Name:           "Internet",
			Type:           domain.Fixed,
			TotalAmount:    centsValue(12000),
			Installments:   intPtr(12),
			StartDate:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			DueDay:         15,
			ReferenceMonth: 1,
			ReferenceYear:  2026,
		},
		RemainingAmount: 12000,
	}

	suite.mockAccountService.On("CreateAccount",
		mock.Anything,
		suite.testUserID(),
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
			return r.Name == "Internet" && r.Type == domain.Fixed && r.DueDay == 15
		}),
	).Return(created, nil).Once()

	req := suite.authorizedRequest(http.MethodPost, "/api/v1/accounts", reqBody)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var body dto.AccountWithScheduleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(accountID, body.AccountID)
	suite.Equal(int64(12000), body.RemainingAmount)

	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidType() {
	payload := map[string]any{
		"name":      "Broken",
		"type":      "NONSENSE",
		"startDate": "2026-01-15",
		"dueDay":    15,
	}

	req := suite.authorizedRequest(http.MethodPost, "/api/v1/accounts", payload)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestPayAccount_AlreadyPaid() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("MarkAccountPaid",
		mock.Anything, accountID, suite.testUserID(),
		dto.MarkAccountPaidRequest{PaymentAmount: 50000},
	).Return(nil, apperrors.New(apperrors.ErrConflict, apperrors.CodeAccountAlreadyPaid, "account %s is already paid", accountID)).Once()

	req := suite.authorizedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/accounts/%s/pay", accountID),
		dto.MarkAccountPaidRequest{PaymentAmount: 50000})
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)

	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(apperrors.CodeAccountAlreadyPaid, body["code"])

	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestListAccountInstallments_UnpaidFilter() {
	accountID := uuid.NewString()
	expected := &dto.InstallmentPageResponse{
		Docs:     []dto.InstallmentResponse{},
		PageMeta: dto.NewPageMeta(0, dto.PageRequest{Limit: 20, Page: 1}),
	}

	suite.mockInstallmentService.On("FindUnpaidByAccount",
		mock.Anything, accountID,
		mock.MatchedBy(func(p dto.PageRequest) bool { return p.Limit == 20 && p.Page == 1 }),
	).Return(expected, nil).Once()

	req := suite.authorizedRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/accounts/%s/installments?unpaid=true", accountID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockInstallmentService.AssertExpectations(suite.T())
	suite.mockInstallmentService.AssertNotCalled(suite.T(), "FindByAccount")
}

func (suite *AccountHandlerTestSuite) TestSimulateLoan_DerivesInterest() {
	reqBody := dto.SimulateLoanRequest{
		TotalAmount:       100000,
		Installments:      12,
		InstallmentAmount: 9000,
	}

	req := suite.authorizedRequest(http.MethodPost, "/api/v1/loans/simulate", reqBody)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.LoanTermsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(int64(100000), body.TotalAmount)
	suite.Equal(int64(9000), body.InstallmentAmount)
	suite.Equal(int64(8000), body.TotalInterest)
	suite.NotEqual("0.0000", body.MonthlyInterestRate)

	// no persistence is involved in a simulation
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestAssociateCreditCard_NoContent() {
	accountID := uuid.NewString()
	creditCardID := uuid.NewString()

	suite.mockAccountService.On("AssociateToCreditCard",
		mock.Anything, suite.testUserID(), creditCardID, accountID,
	).Return(nil).Once()

	req := suite.authorizedRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/accounts/%s/credit-card/%s", accountID, creditCardID), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestGetAccount_MissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountByID")
}

func int64Ptr(v int64) *int64 {
	return &v
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
