package dto

import (
	"time"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
)

// InstallmentResponse mirrors domain.Installment for API output.
type InstallmentResponse struct {
	InstallmentID  string     `json:"installmentID"`
	AccountID      string     `json:"accountID"`
	Number         int        `json:"number"`
	DueDate        string     `json:"dueDate"`
	Amount         int64      `json:"amount"`
	IsPaid         bool       `json:"isPaid"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
	ReferenceMonth int        `json:"referenceMonth"`
	ReferenceYear  int        `json:"referenceYear"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastUpdatedAt  time.Time  `json:"lastUpdatedAt"`
}

// InstallmentPageResponse is one page of installments.
type InstallmentPageResponse struct {
	Docs []InstallmentResponse `json:"docs"`
	PageMeta
}

// InstallmentPaymentResponse reports a single-installment settlement: the
// installment after the flip plus the expense transaction that settled it.
type InstallmentPaymentResponse struct {
	Installment InstallmentResponse `json:"installment"`
	Transaction TransactionResponse `json:"transaction"`
}

// ToInstallmentResponse converts a domain.Installment to its API shape.
func ToInstallmentResponse(ins *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID:  ins.InstallmentID,
		AccountID:      ins.AccountID,
		Number:         ins.Number,
		DueDate:        ins.DueDate.Format("2006-01-02"),
		Amount:         int64(ins.Amount),
		IsPaid:         ins.IsPaid,
		PaidAt:         ins.PaidAt,
		ReferenceMonth: ins.ReferenceMonth,
		ReferenceYear:  ins.ReferenceYear,
		CreatedAt:      ins.CreatedAt,
		LastUpdatedAt:  ins.LastUpdatedAt,
	}
}

// ToListInstallmentResponse converts a slice of installments.
func ToListInstallmentResponse(installments []domain.Installment) []InstallmentResponse {
	res := make([]InstallmentResponse, len(installments))
	for i := range installments {
		res[i] = ToInstallmentResponse(&installments[i])
	}
	return res
}
