package services

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/core/domain"
)

// CreditCardItemSvcFacade manages the links between credit-card accounts and
// the accounts billed through them.
type CreditCardItemSvcFacade interface {
	// Link connects an account to a credit card. The target must be a
	// CREDIT_CARD account and the pair must not already be linked.
	Link(ctx context.Context, creditCardID, accountID string) (*domain.CreditCardItem, error)

	// Unlink removes the connection for one (card, account) pair.
	Unlink(ctx context.Context, creditCardID, accountID string) error

	// LinkedAccounts lists the accounts billed through the card.
	LinkedAccounts(ctx context.Context, creditCardID string) ([]domain.Account, error)

	// IsLinked reports whether the pair is connected.
	IsLinked(ctx context.Context, creditCardID, accountID string) (bool, error)

	// DeleteAllByCreditCard removes every link where the account is the
	// card. Returns the number removed.
	DeleteAllByCreditCard(ctx context.Context, creditCardID string) (int, error)

	// DeleteAllByAccount removes every link where the account is the linked
	// charge. Returns the number removed.
	DeleteAllByAccount(ctx context.Context, accountID string) (int, error)
}
