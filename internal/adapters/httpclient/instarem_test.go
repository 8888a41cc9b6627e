package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/stretchr/testify/require"
)

func instaremTestServer(t *testing.T, quote http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "instarem-token", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/api/v1/prices/computed-fx-rate", quote)
	return httptest.NewServer(mux)
}

func TestInstaReMClient_FetchQuote_Success(t *testing.T) {
	srv := instaremTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer instarem-token", r.Header.Get("Authorization"))
		require.Equal(t, "GBP", r.URL.Query().Get("source_currency"))
		require.Equal(t, "EUR", r.URL.Query().Get("destination_currency"))
		require.Equal(t, "1000", r.URL.Query().Get("source_amount"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fx_rate": 1.1570, "transaction_fee_amount": 5.00, "destination_amount": 1151.21, "expected_settlement_time": "2-3 business days"}`))
	})
	defer srv.Close()

	client := NewInstaReMClient(srv.Client(), srv.URL, "client-id", "client-secret")

	quote, err := client.FetchQuote(context.Background(), quoteReq())

	require.NoError(t, err)
	require.Equal(t, "instarem", quote.ProviderCode)
	require.True(t, d("1.1570").Equal(quote.Rate))
	require.True(t, d("5.00").Equal(quote.Fee))
	require.NotNil(t, quote.AmountReceived)
	require.True(t, d("1151.21").Equal(*quote.AmountReceived))
	require.Equal(t, "2-3 business days", quote.DeliveryEstimate)
}

func TestInstaReMClient_FetchQuote_UnsupportedPair(t *testing.T) {
	srv := instaremTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "invalid currency combination"}`))
	})
	defer srv.Close()

	client := NewInstaReMClient(srv.Client(), srv.URL, "client-id", "client-secret")

	_, err := client.FetchQuote(context.Background(), quoteReq())

	require.ErrorIs(t, err, domain.ErrUnsupportedPair)
}

func TestInstaReMClient_FetchQuote_ZeroRate(t *testing.T) {
	srv := instaremTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"fx_rate": 0}`))
	})
	defer srv.Close()

	client := NewInstaReMClient(srv.Client(), srv.URL, "client-id", "client-secret")

	_, err := client.FetchQuote(context.Background(), quoteReq())

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "instarem", parseErr.Provider)
}
