package domain

// CreditCardItem links a CREDIT_CARD account to another account whose
// charges are billed through it. Unique per (credit card, account) pair.
type CreditCardItem struct {
	CreditCardItemID string `json:"creditCardItemID"`
	CreditCardID     string `json:"creditCardID"`
	AccountID        string `json:"accountID"`
	AuditFields
}
