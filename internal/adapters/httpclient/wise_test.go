package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func quoteReq() domain.QuoteRequest {
	return domain.QuoteRequest{FromCurrency: "GBP", ToCurrency: "EUR", Amount: d("1000")}
}

func TestWiseClient_FetchQuote_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v3/quotes", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "GBP", body["sourceCurrency"])
		require.Equal(t, "EUR", body["targetCurrency"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"rate": 1.1621,
			"targetAmount": 1156.87,
			"paymentOptions": [
				{"payIn": "BANK_TRANSFER", "payOut": "BANK_TRANSFER", "disabled": false,
				 "estimatedDelivery": "2025-03-11T12:00:00Z", "fee": {"total": 4.42}},
				{"payIn": "CARD", "payOut": "BANK_TRANSFER", "disabled": false,
				 "estimatedDelivery": "2025-03-10T12:30:00Z", "fee": {"total": 9.80}},
				{"payIn": "CHEAP_BUT_OFF", "payOut": "BANK_TRANSFER", "disabled": true,
				 "estimatedDelivery": "2025-03-10T12:00:00Z", "fee": {"total": 0.01}}
			]
		}`))
	}))
	defer srv.Close()

	client := NewWiseClient(srv.Client(), srv.URL, "test-token", false)

	quote, err := client.FetchQuote(context.Background(), quoteReq())

	require.NoError(t, err)
	require.Equal(t, "wise", quote.ProviderCode)
	require.True(t, d("1.1621").Equal(quote.Rate))
	// Cheapest enabled option wins; the disabled one is skipped.
	require.True(t, d("4.42").Equal(quote.Fee), "got %s", quote.Fee)
	require.Equal(t, "2025-03-11T12:00:00Z", quote.DeliveryEstimate)
	require.NotNil(t, quote.AmountReceived)
	require.True(t, d("1156.87").Equal(*quote.AmountReceived))
}

func TestWiseClient_FetchQuote_UnsupportedPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors": [{"message": "currency pair GBP->XXX is not supported"}]}`))
	}))
	defer srv.Close()

	client := NewWiseClient(srv.Client(), srv.URL, "test-token", false)

	_, err := client.FetchQuote(context.Background(), quoteReq())

	require.ErrorIs(t, err, domain.ErrUnsupportedPair)
}

func TestWiseClient_FetchQuote_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewWiseClient(srv.Client(), srv.URL, "test-token", false)

	_, err := client.FetchQuote(context.Background(), quoteReq())

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, "wise", provErr.Provider)
}

func TestWiseClient_FetchQuote_ZeroRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rate": 0, "paymentOptions": []}`))
	}))
	defer srv.Close()

	client := NewWiseClient(srv.Client(), srv.URL, "test-token", false)

	_, err := client.FetchQuote(context.Background(), quoteReq())

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "wise", parseErr.Provider)
}

func TestNewWiseClient_BaseURLDefaults(t *testing.T) {
	sandbox := NewWiseClient(http.DefaultClient, "", "tok", true)
	production := NewWiseClient(http.DefaultClient, "", "tok", false)
	explicit := NewWiseClient(http.DefaultClient, "http://localhost:9999", "tok", true)

	require.Equal(t, wiseSandboxURL, sandbox.baseURL)
	require.Equal(t, wiseProductionURL, production.baseURL)
	require.Equal(t, "http://localhost:9999", explicit.baseURL)
}
