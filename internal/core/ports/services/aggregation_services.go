package services

import (
	"context"

	"github.com/finledger/finance_ledger_app/internal/dto"
)

// AggregationProviderSvc is the contract of the external account-aggregation
// provider. Failures are wrapped into a single provider-tagged error; the
// provider's own error detail is not leaked to callers.
type AggregationProviderSvc interface {
	// GetAccounts lists the remote accounts connected under an item.
	GetAccounts(ctx context.Context, itemID string) (*dto.ProviderAccountsResponse, error)

	// CreateConnectToken issues a short-lived widget token for the client.
	CreateConnectToken(ctx context.Context, clientUserID string, itemID *string) (*dto.ProviderConnectTokenResponse, error)
}
