package models

import (
	"time"
)

// AccountType classifies the financial obligation an account represents.
type AccountType string

// Account represents an obligation row in the accounts table. Monetary
// columns are BIGINT cents; nullable columns use pointers.
type Account struct {
	AccountID         string      `db:"account_id"`
	UserID            string      `db:"user_id"`
	Name              string      `db:"name"`
	Type              AccountType `db:"type"`
	IsPaid            bool        `db:"is_paid"`
	TotalAmount       *int64      `db:"total_amount"`
	InstallmentAmount *int64      `db:"installment_amount"`
	Installments      *int        `db:"installments"`
	StartDate         time.Time   `db:"start_date"`
	DueDay            int         `db:"due_day"`
	ClosingDate       *int        `db:"closing_date"`
	IsPreview         bool        `db:"is_preview"`
	ReferenceMonth    int         `db:"reference_month"`
	ReferenceYear     int         `db:"reference_year"`
	CreditLimit       *int64      `db:"credit_limit"`
	CreditCardID      *string     `db:"credit_card_id"`
	AuditFields
}
