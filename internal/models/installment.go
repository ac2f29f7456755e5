package models

import "time"

// Installment represents one row of the installments table.
// (account_id, number) is unique.
type Installment struct {
	InstallmentID  string     `db:"installment_id"`
	AccountID      string     `db:"account_id"`
	Number         int        `db:"number"`
	DueDate        time.Time  `db:"due_date"`
	Amount         int64      `db:"amount"`
	IsPaid         bool       `db:"is_paid"`
	PaidAt         *time.Time `db:"paid_at"`
	ReferenceMonth int        `db:"reference_month"`
	ReferenceYear  int        `db:"reference_year"`
	AuditFields
}
