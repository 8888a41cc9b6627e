package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// RevolutClient fetches exchange quotes from the Revolut business API.
// Authentication is OAuth client-credentials; the oauth2 token source
// caches the access token with its own expiry, independent of the rate
// cache tiers. The quote call is an idempotent GET and is retried with
// backoff on transient failures.
type RevolutClient struct {
	http    *http.Client
	baseURL string
}

func NewRevolutClient(baseClient *http.Client, baseURL, clientID, clientSecret string) *RevolutClient {
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/api/v1.0/auth/token",
	}
	// The token source reuses baseClient for the token endpoint and
	// refreshes lazily when the cached token expires.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, baseClient)
	authed := oauth2.NewClient(tokenCtx, cc.TokenSource(tokenCtx))
	authed.Timeout = baseClient.Timeout

	return &RevolutClient{http: authed, baseURL: baseURL}
}

type revolutQuoteResponse struct {
	Rate decimal.Decimal `json:"rate"`
	Fee  decimal.Decimal `json:"fee"`
	To   struct {
		Amount decimal.Decimal `json:"amount"`
	} `json:"to"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

func (c *RevolutClient) FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.RateQuote, error) {
	q := url.Values{}
	q.Set("from", req.FromCurrency)
	q.Set("to", req.ToCurrency)
	q.Set("amount", req.Amount.String())
	endpoint := c.baseURL + "/api/1.0/rate?" + q.Encode()

	var body revolutQuoteResponse
	err := retryGet(ctx, func() error {
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if reqErr != nil {
			return fmt.Errorf("failed to create revolut quote request: %w", reqErr)
		}

		resp, doErr := c.http.Do(httpReq)
		if doErr != nil {
			return &domain.ProviderError{Provider: "revolut", Err: doErr}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return classifyStatus("revolut", resp)
		}
		if decErr := json.NewDecoder(resp.Body).Decode(&body); decErr != nil {
			return &domain.ProviderError{
				Provider: "revolut",
				Err:      &domain.ParseError{Provider: "revolut", Stage: "json", Raw: decErr.Error()},
			}
		}
		return nil
	})
	if err != nil {
		return domain.RateQuote{}, unwrapPermanent(err)
	}

	if body.Rate.IsZero() {
		return domain.RateQuote{}, &domain.ProviderError{
			Provider: "revolut",
			Err:      &domain.ParseError{Provider: "revolut", Stage: "json", Raw: "zero rate in quote"},
		}
	}

	quote := domain.RateQuote{
		ProviderCode:     "revolut",
		FromCurrency:     req.FromCurrency,
		ToCurrency:       req.ToCurrency,
		Amount:           req.Amount,
		Rate:             body.Rate,
		Fee:              body.Fee,
		DeliveryEstimate: body.EstimatedDelivery,
		FetchedAt:        time.Now(),
	}
	if body.To.Amount.IsPositive() {
		target := body.To.Amount
		quote.AmountReceived = &target
	}
	return quote, nil
}
