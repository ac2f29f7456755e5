package services

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
)

// CategoryService is the default category validator. Categories are
// free-form, so any non-empty name passes. The validator seam exists so a
// curated category list can be enforced without touching the transaction
// service.
type CategoryService struct{}

func NewCategoryService() *CategoryService {
	return &CategoryService{}
}

func (s *CategoryService) ValidateCategoryExists(ctx context.Context, name string, txnType domain.TransactionType) error {
	return nil
}
