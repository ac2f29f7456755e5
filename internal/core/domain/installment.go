package domain

import (
	"time"

	"github.com/finledger/finance_ledger_app/internal/utils/money"
)

// Installment is one dated, payable slice of an account's obligation.
// Installments are created in a batch by the generator and are never patched
// individually: any schedule-affecting change on the account deletes and
// regenerates the whole set.
type Installment struct {
	InstallmentID  string      `json:"installmentID"`
	AccountID      string      `json:"accountID"`
	Number         int         `json:"number"` // 1-based, unique per account
	DueDate        time.Time   `json:"dueDate"`
	Amount         money.Cents `json:"amount"`
	IsPaid         bool        `json:"isPaid"`
	PaidAt         *time.Time  `json:"paidAt,omitempty"`
	ReferenceMonth int         `json:"referenceMonth"` // derived from DueDate
	ReferenceYear  int         `json:"referenceYear"`
	AuditFields
}
