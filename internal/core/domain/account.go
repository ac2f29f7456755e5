package domain

import (
	"time"

	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// AccountType classifies the financial obligation an account represents.
type AccountType string

const (
	Fixed        AccountType = "FIXED"
	Loan         AccountType = "LOAN"
	CreditCard   AccountType = "CREDIT_CARD"
	DebitCard    AccountType = "DEBIT_CARD"
	Subscription AccountType = "SUBSCRIPTION"
	Insurance    AccountType = "INSURANCE"
	Tax          AccountType = "TAX"
	Pension      AccountType = "PENSION"
	Education    AccountType = "EDUCATION"
	Health       AccountType = "HEALTH"
	Other        AccountType = "OTHER"
)

// AccountTypes is the closed set of valid account types.
var AccountTypes = []AccountType{
	Fixed, Loan, CreditCard, DebitCard, Subscription,
	Insurance, Tax, Pension, Education, Health, Other,
}

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Account is a tracked financial obligation owned by exactly one user:
// a fixed bill, a loan, a credit card or another recurring charge.
//
// All monetary values are integer cents. For LOAN accounts TotalAmount holds
// the original principal; the amount actually repaid is InstallmentAmount
// times Installments and may exceed it by the implied interest.
type Account struct {
	AccountID         string       `json:"accountID"`
	UserID            string       `json:"userID"`
	Name              string       `json:"name"`
	Type              AccountType  `json:"type"`
	IsPaid            bool         `json:"isPaid"`
	TotalAmount       *money.Cents `json:"totalAmount,omitempty"`
	InstallmentAmount *money.Cents `json:"installmentAmount,omitempty"`
	Installments      *int         `json:"installments,omitempty"` // nil: single lump obligation
	StartDate         time.Time    `json:"startDate"`
	DueDay            int          `json:"dueDay"` // 1-31
	ClosingDate       *int         `json:"closingDate,omitempty"` // CREDIT_CARD statement closing day
	IsPreview         bool         `json:"isPreview"`
	ReferenceMonth    int          `json:"referenceMonth"`
	ReferenceYear     int          `json:"referenceYear"`
	CreditLimit       *money.Cents `json:"creditLimit,omitempty"` // CREDIT_CARD only
	CreditCardID      *string      `json:"creditCardID,omitempty"` // set when billed through a credit card
	AuditFields
}

// AccountWithSchedule is an account together with its materialized
// installment schedule and payment progress.
type AccountWithSchedule struct {
	Account
	InstallmentList []Installment `json:"installmentList"`
	AmountPaid      money.Cents   `json:"amountPaid"`
	RemainingAmount money.Cents   `json:"remainingAmount"`
}

// PeriodStatistics aggregates the accounts of one billing period.
type PeriodStatistics struct {
	ReferenceMonth int         `json:"referenceMonth"`
	ReferenceYear  int         `json:"referenceYear"`
	TotalAccounts  int         `json:"totalAccounts"`
	PaidAccounts   int         `json:"paidAccounts"`
	UnpaidAccounts int         `json:"unpaidAccounts"`
	TotalAmount    money.Cents `json:"totalAmount"`
	PaidAmount     money.Cents `json:"paidAmount"`
	UnpaidAmount   money.Cents `json:"unpaidAmount"`
}
