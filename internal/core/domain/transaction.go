package domain

import (
	"time"

	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// TransactionType distinguishes realized cash movements.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// Transaction is a realized cash movement, optionally linked to an account
// and/or one specific installment. At most one transaction may exist per
// installment.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	UserID        string          `json:"userID"`
	AccountID     *string         `json:"accountID,omitempty"`
	InstallmentID *string         `json:"installmentID,omitempty"`
	Type          TransactionType `json:"type"`
	Category      string          `json:"category,omitempty"`
	Description   string          `json:"description"`
	Value         money.Cents     `json:"value"`
	Date          time.Time       `json:"date"`
	AuditFields
}

// Categories assigned to engine-generated payment transactions.
const (
	CategoryInstallmentPayment = "INSTALLMENT_PAYMENT"
	CategoryAccountPayment     = "ACCOUNT_PAYMENT"
)

// UserBalance is the per-period cash movement summary derived from
// transactions and account totals.
type UserBalance struct {
	Income             money.Cents `json:"income"`
	Expense            money.Cents `json:"expense"`
	LinkedExpenses     money.Cents `json:"linkedExpenses"`
	StandaloneExpenses money.Cents `json:"standaloneExpenses"`
	Balance            money.Cents `json:"balance"`
	FixedAccountsTotal money.Cents `json:"fixedAccountsTotal"`
	LoanAccountsTotal  money.Cents `json:"loanAccountsTotal"`
	TotalAccounts      money.Cents `json:"totalAccounts"`
	Period             BalancePeriod `json:"period"`
}

// BalancePeriod describes the month a balance was computed for.
type BalancePeriod struct {
	Year           int    `json:"year"`
	Month          int    `json:"month"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	IsCurrentMonth bool   `json:"isCurrentMonth"`
}

// ExpenseCategory is one slice of the expenses-by-category report.
type ExpenseCategory struct {
	Category   string          `json:"category"`
	Name       string          `json:"name"`
	Value      money.Cents     `json:"value"`
	Percentage string          `json:"percentage"`
	Source     ExpenseSource   `json:"source"`
}

// ExpenseSource tells whether a report slice came from an account type or a
// free-form transaction category.
type ExpenseSource string

const (
	SourceAccount     ExpenseSource = "account"
	SourceTransaction ExpenseSource = "transaction"
)
