package dto

import (
	"time"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
)

// CreateTransactionRequest defines the data for recording a cash movement.
// Value is integer cents. Date defaults to now when omitted.
type CreateTransactionRequest struct {
	Type          domain.TransactionType `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Value         int64                  `json:"value" binding:"required,gt=0"`
	Description   string                 `json:"description" binding:"required"`
	Category      string                 `json:"category"`
	Date          *string                `json:"date" binding:"omitempty,datetime=2006-01-02"`
	AccountID     *string                `json:"accountID"`
	InstallmentID *string                `json:"installmentID"`
}

// ParsedDate returns the provided date at UTC midnight, or now when absent.
func (r CreateTransactionRequest) ParsedDate() time.Time {
	if r.Date == nil {
		return time.Now().UTC()
	}
	t, _ := time.Parse("2006-01-02", *r.Date)
	return t
}

// ListTransactionsRequest defines query parameters for listing transactions.
type ListTransactionsRequest struct {
	PageRequest
	Type      *domain.TransactionType `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Category  *string                 `form:"category"`
	AccountID *string                 `form:"accountID"`
	StartDate *string                 `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string                 `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// ExpensesByCategoryRequest selects the period of the category report.
// Absent fields default to the current month.
type ExpensesByCategoryRequest struct {
	Month *int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  *int `form:"year" binding:"omitempty,min=1970"`
}

// TransactionResponse mirrors domain.Transaction for API output.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	UserID        string                 `json:"userID"`
	AccountID     *string                `json:"accountID,omitempty"`
	InstallmentID *string                `json:"installmentID,omitempty"`
	Type          domain.TransactionType `json:"type"`
	Category      string                 `json:"category,omitempty"`
	Description   string                 `json:"description"`
	Value         int64                  `json:"value"`
	Date          time.Time              `json:"date"`
	CreatedAt     time.Time              `json:"createdAt"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

// TransactionPageResponse is one page of transactions.
type TransactionPageResponse struct {
	Docs []TransactionResponse `json:"docs"`
	PageMeta
}

// ToTransactionResponse converts a domain.Transaction to its API shape.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		UserID:        txn.UserID,
		AccountID:     txn.AccountID,
		InstallmentID: txn.InstallmentID,
		Type:          txn.Type,
		Category:      txn.Category,
		Description:   txn.Description,
		Value:         int64(txn.Value),
		Date:          txn.Date,
		CreatedAt:     txn.CreatedAt,
		LastUpdatedAt: txn.LastUpdatedAt,
	}
}

// ToListTransactionResponse converts a slice of transactions.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
