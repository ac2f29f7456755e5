package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	"github.com/finledger/finance_ledger_app/internal/core/domain"
	portsrepo "github.com/finledger/finance_ledger_app/internal/core/ports/repositories"
	"github.com/finledger/finance_ledger_app/internal/middleware"
)

// CreditCardItemService manages the adjacency records linking credit-card
// accounts to the accounts billed through them.
type CreditCardItemService struct {
	creditCardItemRepo portsrepo.CreditCardItemRepositoryFacade
	accountRepo        portsrepo.AccountReader
}

func NewCreditCardItemService(
	creditCardItemRepo portsrepo.CreditCardItemRepositoryFacade,
	accountRepo portsrepo.AccountReader,
) *CreditCardItemService {
	return &CreditCardItemService{
		creditCardItemRepo: creditCardItemRepo,
		accountRepo:        accountRepo,
	}
}

// Link connects an account to a credit card. The target must be a
// CREDIT_CARD account and the pair must not already be linked.
func (s *CreditCardItemService) Link(ctx context.Context, creditCardID, accountID string) (*domain.CreditCardItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	card, err := s.accountRepo.FindAccountByID(ctx, creditCardID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, apperrors.CodeAccountNotFound, "credit card account %s not found", creditCardID)
		}
		return nil, err
	}
	if card.Type != domain.CreditCard {
		return nil, apperrors.New(apperrors.ErrValidation, apperrors.CodeNotACreditCard, "account %s is not a credit card", creditCardID)
	}

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, apperrors.CodeAccountNotFound, "account %s not found", accountID)
		}
		return nil, err
	}

	existing, err := s.creditCardItemRepo.FindLink(ctx, creditCardID, accountID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.New(apperrors.ErrDuplicate, apperrors.CodeDuplicateCreditCardLink,
			"account %s is already linked to credit card %s", accountID, creditCardID)
	}

	now := time.Now().UTC()
	item := domain.CreditCardItem{
		CreditCardItemID: uuid.NewString(),
		CreditCardID:     creditCardID,
		AccountID:        accountID,
		AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.creditCardItemRepo.SaveLink(ctx, item); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.New(apperrors.ErrDuplicate, apperrors.CodeDuplicateCreditCardLink,
				"account %s is already linked to credit card %s", accountID, creditCardID)
		}
		return nil, err
	}

	logger.Info("Credit card link created", slog.String("credit_card_id", creditCardID), slog.String("account_id", accountID))
	return &item, nil
}

// Unlink removes the connection for one (card, account) pair.
func (s *CreditCardItemService) Unlink(ctx context.Context, creditCardID, accountID string) error {
	item, err := s.creditCardItemRepo.FindLink(ctx, creditCardID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.New(apperrors.ErrNotFound, apperrors.CodeCreditCardLinkNotFound,
				"no link between credit card %s and account %s", creditCardID, accountID)
		}
		return err
	}
	return s.creditCardItemRepo.DeleteLink(ctx, item.CreditCardItemID)
}

// LinkedAccounts lists the accounts billed through the card.
func (s *CreditCardItemService) LinkedAccounts(ctx context.Context, creditCardID string) ([]domain.Account, error) {
	links, err := s.creditCardItemRepo.FindLinksByCreditCard(ctx, creditCardID)
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(links))
	for _, link := range links {
		account, err := s.accountRepo.FindAccountByID(ctx, link.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, nil
}

// IsLinked reports whether the pair is connected.
func (s *CreditCardItemService) IsLinked(ctx context.Context, creditCardID, accountID string) (bool, error) {
	_, err := s.creditCardItemRepo.FindLink(ctx, creditCardID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteAllByCreditCard removes every link where the account is the card.
func (s *CreditCardItemService) DeleteAllByCreditCard(ctx context.Context, creditCardID string) (int, error) {
	return s.creditCardItemRepo.DeleteLinksByCreditCard(ctx, creditCardID)
}

// DeleteAllByAccount removes every link where the account is the linked
// charge.
func (s *CreditCardItemService) DeleteAllByAccount(ctx context.Context, accountID string) (int, error) {
	return s.creditCardItemRepo.DeleteLinksByAccount(ctx, accountID)
}
