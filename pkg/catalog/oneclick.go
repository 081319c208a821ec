package catalog

import (
	"context"
	"fmt"
	"strings"

	oneclick "github.com/defuse-protocol/one-click-sdk-go"

	"token-swap/pkg/types"
)

// OneClickSource reads token prices from the NEAR Intents 1Click token list.
// The same symbol is listed once per chain; the catalog keeps the first one.
type OneClickSource struct {
	client *oneclick.APIClient
	token  string
}

// NewOneClickSource creates a 1Click price source authenticated with jwtToken
func NewOneClickSource(jwtToken string) *OneClickSource {
	return &OneClickSource{
		client: oneclick.NewAPIClient(oneclick.NewConfiguration()),
		token:  jwtToken,
	}
}

func (s *OneClickSource) Name() string { return "1click" }

// Fetch retrieves all supported tokens and maps them to raw prices
func (s *OneClickSource) Fetch(ctx context.Context) ([]types.RawPrice, error) {
	ctx = context.WithValue(ctx, oneclick.ContextAccessToken, s.token)

	tokens, httpResp, err := s.client.OneClickAPI.GetTokens(ctx).Execute()
	if httpResp != nil {
		defer httpResp.Body.Close()
	}
	if err != nil {
		if httpResp != nil && (httpResp.StatusCode < 200 || httpResp.StatusCode >= 300) {
			return nil, &FetchError{Source: s.Name(), StatusCode: httpResp.StatusCode, Err: err}
		}
		return nil, &FetchError{Source: s.Name(), Err: fmt.Errorf("failed to get tokens: %w", err)}
	}

	raw := make([]types.RawPrice, 0, len(tokens))
	for _, token := range tokens {
		symbol := strings.ToUpper(strings.TrimSpace(token.GetSymbol()))
		if symbol == "" {
			continue
		}
		price := float64(token.GetPrice())
		raw = append(raw, types.RawPrice{Currency: symbol, Price: &price})
	}
	return raw, nil
}
