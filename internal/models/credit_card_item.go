package models

// CreditCardItem represents one row of the credit_card_items table.
// (credit_card_id, account_id) is unique.
type CreditCardItem struct {
	CreditCardItemID string `db:"credit_card_item_id"`
	CreditCardID     string `db:"credit_card_id"`
	AccountID        string `db:"account_id"`
	AuditFields
}
