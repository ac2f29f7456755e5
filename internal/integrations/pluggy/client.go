// Package pluggy implements the account-aggregation provider client against
// the Pluggy REST API.
package pluggy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/finledger/finance_ledger_app/internal/apperrors"
	portssvc "github.com/finledger/finance_ledger_app/internal/core/ports/services"
	"github.com/finledger/finance_ledger_app/internal/dto"
)

const defaultTimeout = 15 * time.Second

// Client calls the Pluggy API. Provider failures are wrapped into
// provider-tagged application errors so handlers never leak upstream detail.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ portssvc.AggregationProviderSvc = (*Client)(nil)

// NewClient builds a client for the given Pluggy base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type connectTokenRequest struct {
	ClientUserID string  `json:"clientUserId"`
	ItemID       *string `json:"itemId,omitempty"`
}

// GetAccounts lists the remote accounts connected under an item.
func (c *Client) GetAccounts(ctx context.Context, itemID string) (*dto.ProviderAccountsResponse, error) {
	endpoint := c.baseURL + "/accounts?itemId=" + url.QueryEscape(itemID)

	var out dto.ProviderAccountsResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateConnectToken issues a short-lived widget token for the client.
func (c *Client) CreateConnectToken(ctx context.Context, clientUserID string, itemID *string) (*dto.ProviderConnectTokenResponse, error) {
	payload := connectTokenRequest{ClientUserID: clientUserID, ItemID: itemID}

	var out dto.ProviderConnectTokenResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/connect_token", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return apperrors.New(apperrors.ErrProvider, apperrors.CodeProviderError,
				"failed to encode provider request: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return apperrors.New(apperrors.ErrProvider, apperrors.CodeProviderError,
			"failed to build provider request: %v", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.New(apperrors.ErrProvider, apperrors.CodeProviderError,
			"provider request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Drain so the connection can be reused; the upstream body is not
		// surfaced to callers.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return apperrors.New(apperrors.ErrProvider, apperrors.CodeProviderError,
			"provider returned status %d for %s %s", resp.StatusCode, method, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.New(apperrors.ErrProvider, apperrors.CodeProviderError,
			"failed to decode provider response: %v", err)
	}
	return nil
}
