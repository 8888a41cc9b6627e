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

// InstaReMClient fetches computed FX rates from the InstaReM API. Same
// shape as Revolut: client-credentials OAuth with a cached token, a GET
// quote endpoint retried on transient failures.
type InstaReMClient struct {
	http    *http.Client
	baseURL string
}

func NewInstaReMClient(baseClient *http.Client, baseURL, clientID, clientSecret string) *InstaReMClient {
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/oauth/token",
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, baseClient)
	authed := oauth2.NewClient(tokenCtx, cc.TokenSource(tokenCtx))
	authed.Timeout = baseClient.Timeout

	return &InstaReMClient{http: authed, baseURL: baseURL}
}

type instaremQuoteResponse struct {
	FXRate            decimal.Decimal `json:"fx_rate"`
	TransactionFee    decimal.Decimal `json:"transaction_fee_amount"`
	DestinationAmount decimal.Decimal `json:"destination_amount"`
	SettlementTime    string          `json:"expected_settlement_time"`
}

func (c *InstaReMClient) FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.RateQuote, error) {
	q := url.Values{}
	q.Set("source_currency", req.FromCurrency)
	q.Set("destination_currency", req.ToCurrency)
	q.Set("source_amount", req.Amount.String())
	endpoint := c.baseURL + "/api/v1/prices/computed-fx-rate?" + q.Encode()

	var body instaremQuoteResponse
	err := retryGet(ctx, func() error {
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if reqErr != nil {
			return fmt.Errorf("failed to create instarem quote request: %w", reqErr)
		}

		resp, doErr := c.http.Do(httpReq)
		if doErr != nil {
			return &domain.ProviderError{Provider: "instarem", Err: doErr}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return classifyStatus("instarem", resp)
		}
		if decErr := json.NewDecoder(resp.Body).Decode(&body); decErr != nil {
			return &domain.ProviderError{
				Provider: "instarem",
				Err:      &domain.ParseError{Provider: "instarem", Stage: "json", Raw: decErr.Error()},
			}
		}
		return nil
	})
	if err != nil {
		return domain.RateQuote{}, unwrapPermanent(err)
	}

	if body.FXRate.IsZero() {
		return domain.RateQuote{}, &domain.ProviderError{
			Provider: "instarem",
			Err:      &domain.ParseError{Provider: "instarem", Stage: "json", Raw: "zero fx_rate in quote"},
		}
	}

	quote := domain.RateQuote{
		ProviderCode:     "instarem",
		FromCurrency:     req.FromCurrency,
		ToCurrency:       req.ToCurrency,
		Amount:           req.Amount,
		Rate:             body.FXRate,
		Fee:              body.TransactionFee,
		DeliveryEstimate: body.SettlementTime,
		FetchedAt:        time.Now(),
	}
	if body.DestinationAmount.IsPositive() {
		target := body.DestinationAmount
		quote.AmountReceived = &target
	}
	return quote, nil
}
