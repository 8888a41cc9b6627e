package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	wiseProductionURL = "https://api.wise.com"
	wiseSandboxURL    = "https://api.sandbox.transferwise.tech"
)

// WiseClient fetches quotes from the Wise quote API using a static bearer
// token. Quote creation is a POST, so it is never retried.
type WiseClient struct {
	http     *http.Client
	baseURL  string
	apiToken string
}

func NewWiseClient(httpClient *http.Client, baseURL, apiToken string, sandbox bool) *WiseClient {
	if baseURL == "" {
		baseURL = wiseProductionURL
		if sandbox {
			baseURL = wiseSandboxURL
		}
	}
	return &WiseClient{http: httpClient, baseURL: baseURL, apiToken: apiToken}
}

type wiseQuoteRequest struct {
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	SourceAmount   decimal.Decimal `json:"sourceAmount"`
}

type wiseQuoteResponse struct {
	Rate           decimal.Decimal `json:"rate"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	PaymentOptions []struct {
		PayIn             string `json:"payIn"`
		PayOut            string `json:"payOut"`
		Disabled          bool   `json:"disabled"`
		EstimatedDelivery string `json:"estimatedDelivery"`
		Fee               struct {
			Total decimal.Decimal `json:"total"`
		} `json:"fee"`
	} `json:"paymentOptions"`
}

func (c *WiseClient) FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.RateQuote, error) {
	payload, err := json.Marshal(wiseQuoteRequest{
		SourceCurrency: req.FromCurrency,
		TargetCurrency: req.ToCurrency,
		SourceAmount:   req.Amount,
	})
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("failed to encode wise quote request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/quotes", bytes.NewReader(payload))
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("failed to create wise quote request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.RateQuote{}, &domain.ProviderError{Provider: "wise", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RateQuote{}, unwrapPermanent(classifyStatus("wise", resp))
	}

	var body wiseQuoteResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.RateQuote{}, &domain.ProviderError{
			Provider: "wise",
			Err:      &domain.ParseError{Provider: "wise", Stage: "json", Raw: err.Error()},
		}
	}

	if body.Rate.IsZero() {
		return domain.RateQuote{}, &domain.ProviderError{
			Provider: "wise",
			Err:      &domain.ParseError{Provider: "wise", Stage: "json", Raw: "zero rate in quote"},
		}
	}

	quote := domain.RateQuote{
		ProviderCode: "wise",
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Amount:       req.Amount,
		Rate:         body.Rate,
		FetchedAt:    time.Now(),
	}
	if body.TargetAmount.IsPositive() {
		target := body.TargetAmount
		quote.AmountReceived = &target
	}

	// Cheapest enabled payment option wins; its delivery estimate comes
	// along.
	picked := false
	for _, opt := range body.PaymentOptions {
		if opt.Disabled {
			continue
		}
		if !picked || opt.Fee.Total.LessThan(quote.Fee) {
			quote.Fee = opt.Fee.Total
			quote.DeliveryEstimate = opt.EstimatedDelivery
			picked = true
		}
	}

	return quote, nil
}
