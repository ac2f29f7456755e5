package dto

// ProviderAccount is one remote account as reported by the aggregation
// provider. Balance keeps the provider's fractional unit untouched.
type ProviderAccount struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Subtype      string  `json:"subtype"`
	Name         string  `json:"name"`
	Balance      float64 `json:"balance"`
	CurrencyCode string  `json:"currencyCode"`
}

// ProviderAccountsResponse is the provider's account listing for one item.
type ProviderAccountsResponse struct {
	Total   int               `json:"total"`
	Results []ProviderAccount `json:"results"`
}

// ProviderConnectTokenResponse carries the short-lived widget token.
type ProviderConnectTokenResponse struct {
	AccessToken string `json:"accessToken"`
}
