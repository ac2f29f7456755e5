package dto

import (
	"time"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// CreateAccountRequest defines the data needed to declare a new obligation.
// All monetary fields are integer cents.
type CreateAccountRequest struct {
	Name              string             `json:"name" binding:"required"`
	Type              domain.AccountType `json:"type" binding:"required,accounttype"`
	TotalAmount       *int64             `json:"totalAmount" binding:"omitempty,gt=0"`
	InstallmentAmount *int64             `json:"installmentAmount" binding:"omitempty,gt=0"`
	Installments      *int               `json:"installments" binding:"omitempty,min=1"`
	StartDate         string             `json:"startDate" binding:"required,datetime=2006-01-02"`
	DueDay            int                `json:"dueDay" binding:"required,min=1,max=31"`
	ClosingDate       *int               `json:"closingDate" binding:"omitempty,min=1,max=31"` // CREDIT_CARD only
	CreditLimit       *int64             `json:"creditLimit" binding:"omitempty,gt=0"`         // CREDIT_CARD only
	CreditCardID      *string            `json:"creditCardID"`                                 // bill through an existing card
}

// ParsedStartDate returns the start date as UTC midnight. Binding already
// guarantees the format.
func (r CreateAccountRequest) ParsedStartDate() time.Time {
	t, _ := time.Parse("2006-01-02", r.StartDate)
	return t
}

// UpdateAccountRequest defines the fields allowed to change on an account.
// Pointers distinguish "not provided" from zero-value updates.
type UpdateAccountRequest struct {
	Name              *string `json:"name"`
	TotalAmount       *int64  `json:"totalAmount" binding:"omitempty,gt=0"`
	InstallmentAmount *int64  `json:"installmentAmount" binding:"omitempty,gt=0"`
	Installments      *int    `json:"installments" binding:"omitempty,min=1"`
	StartDate         *string `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	DueDay            *int    `json:"dueDay" binding:"omitempty,min=1,max=31"`
	ClosingDate       *int    `json:"closingDate" binding:"omitempty,min=1,max=31"`
	CreditLimit       *int64  `json:"creditLimit" binding:"omitempty,gt=0"`
	IsPaid            *bool   `json:"isPaid"`
}

// ListAccountsRequest defines query parameters for listing accounts.
type ListAccountsRequest struct {
	PageRequest
	Type           *domain.AccountType `form:"type" binding:"omitempty,accounttype"`
	IsPaid         *bool               `form:"isPaid"`
	ReferenceMonth *int                `form:"referenceMonth" binding:"omitempty,min=1,max=12"`
	ReferenceYear  *int                `form:"referenceYear" binding:"omitempty,min=1970"`
}

// AccountResponse mirrors domain.Account for API output.
type AccountResponse struct {
	AccountID         string             `json:"accountID"`
	UserID            string             `json:"userID"`
	Name              string             `json:"name"`
	Type              domain.AccountType `json:"type"`
	IsPaid            bool               `json:"isPaid"`
	TotalAmount       *int64             `json:"totalAmount,omitempty"`
	InstallmentAmount *int64             `json:"installmentAmount,omitempty"`
	Installments      *int               `json:"installments,omitempty"`
	StartDate         string             `json:"startDate"`
	DueDay            int                `json:"dueDay"`
	ClosingDate       *int               `json:"closingDate,omitempty"`
	IsPreview         bool               `json:"isPreview"`
	ReferenceMonth    int                `json:"referenceMonth"`
	ReferenceYear     int                `json:"referenceYear"`
	CreditLimit       *int64             `json:"creditLimit,omitempty"`
	CreditCardID      *string            `json:"creditCardID,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	LastUpdatedAt     time.Time          `json:"lastUpdatedAt"`
}

// AccountListResponse is one page of accounts.
type AccountListResponse struct {
	Docs []AccountResponse `json:"docs"`
	PageMeta
}

// AccountWithScheduleResponse is an account together with its installment
// schedule and payment progress, in cents.
type AccountWithScheduleResponse struct {
	AccountResponse
	InstallmentList []InstallmentResponse `json:"installmentList"`
	AmountPaid      int64                 `json:"amountPaid"`
	RemainingAmount int64                 `json:"remainingAmount"`
}

// MarkAccountPaidRequest carries the consolidated payment amount in cents.
type MarkAccountPaidRequest struct {
	PaymentAmount int64 `json:"paymentAmount" binding:"required,gt=0"`
}

// MarkAccountPaidResponse reports the settlement outcome.
type MarkAccountPaidResponse struct {
	Account          AccountResponse      `json:"account"`
	PaidInstallments int                  `json:"paidInstallments"`
	TotalPaid        int64                `json:"totalPaid"`
	Transaction      *TransactionResponse `json:"transaction,omitempty"`
}

// SimulateLoanRequest carries the parameters of a loan simulation: a
// principal repaid in fixed monthly payments, all in cents.
type SimulateLoanRequest struct {
	TotalAmount       int64 `json:"totalAmount" binding:"required,gt=0"`
	Installments      int   `json:"installments" binding:"required,min=1"`
	InstallmentAmount int64 `json:"installmentAmount" binding:"required,gt=0"`
}

// LoanTermsResponse reports the derived parameters of a loan: total interest
// paid over the schedule and the implied monthly rate as a percentage string.
type LoanTermsResponse struct {
	AccountID           string `json:"accountID,omitempty"`
	TotalAmount         int64  `json:"totalAmount"`
	InstallmentAmount   int64  `json:"installmentAmount"`
	Installments        int    `json:"installments"`
	TotalInterest       int64  `json:"totalInterest"`
	MonthlyInterestRate string `json:"monthlyInterestRate"`
}

// ToAccountResponse converts a domain.Account to its API shape.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:         acc.AccountID,
		UserID:            acc.UserID,
		Name:              acc.Name,
		Type:              acc.Type,
		IsPaid:            acc.IsPaid,
		TotalAmount:       centsPtr(acc.TotalAmount),
		InstallmentAmount: centsPtr(acc.InstallmentAmount),
		Installments:      acc.Installments,
		StartDate:         acc.StartDate.Format("2006-01-02"),
		DueDay:            acc.DueDay,
		ClosingDate:       acc.ClosingDate,
		IsPreview:         acc.IsPreview,
		ReferenceMonth:    acc.ReferenceMonth,
		ReferenceYear:     acc.ReferenceYear,
		CreditLimit:       centsPtr(acc.CreditLimit),
		CreditCardID:      acc.CreditCardID,
		CreatedAt:         acc.CreatedAt,
		LastUpdatedAt:     acc.LastUpdatedAt,
	}
}

// ToAccountWithScheduleResponse converts an account and its schedule.
func ToAccountWithScheduleResponse(acc *domain.AccountWithSchedule) AccountWithScheduleResponse {
	return AccountWithScheduleResponse{
		AccountResponse: ToAccountResponse(&acc.Account),
		InstallmentList: ToListInstallmentResponse(acc.InstallmentList),
		AmountPaid:      int64(acc.AmountPaid),
		RemainingAmount: int64(acc.RemainingAmount),
	}
}

// ToListAccountResponse converts a slice of accounts reusing the single
// converter.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

func centsPtr(c *money.Cents) *int64 {
	if c == nil {
		return nil
	}
	v := int64(*c)
	return &v
}
