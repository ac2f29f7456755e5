package models

import "time"

// TransactionType distinguishes INCOME from EXPENSE rows.
type TransactionType string

// Transaction represents one row of the transactions table. Value is BIGINT
// cents; account/installment links are nullable.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	AccountID     *string         `db:"account_id"`
	InstallmentID *string         `db:"installment_id"`
	Type          TransactionType `db:"type"`
	Category      *string         `db:"category"`
	Description   string          `db:"description"`
	Value         int64           `db:"value"`
	Date          time.Time       `db:"date"`
	AuditFields
}
