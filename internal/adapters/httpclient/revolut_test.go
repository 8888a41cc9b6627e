package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/stretchr/testify/require"
)

// revolutTestServer serves the client-credentials token endpoint plus a
// configurable quote handler.
func revolutTestServer(t *testing.T, tokenCalls *int32, quote http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1.0/auth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "test-access-token", "token_type": "Bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/api/1.0/rate", quote)
	return httptest.NewServer(mux)
}

func TestRevolutClient_FetchQuote_Success(t *testing.T) {
	var tokenCalls int32
	srv := revolutTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
		require.Equal(t, "GBP", r.URL.Query().Get("from"))
		require.Equal(t, "EUR", r.URL.Query().Get("to"))
		require.Equal(t, "1000", r.URL.Query().Get("amount"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rate": 1.1595, "fee": 3.49, "to": {"amount": 1155.45}, "estimated_delivery": "2025-03-11T09:00:00Z"}`))
	})
	defer srv.Close()

	client := NewRevolutClient(srv.Client(), srv.URL, "client-id", "client-secret")

	quote, err := client.FetchQuote(context.Background(), quoteReq())

	require.NoError(t, err)
	require.Equal(t, "revolut", quote.ProviderCode)
	require.True(t, d("1.1595").Equal(quote.Rate))
	require.True(t, d("3.49").Equal(quote.Fee))
	require.NotNil(t, quote.AmountReceived)
	require.True(t, d("1155.45").Equal(*quote.AmountReceived))
	require.Equal(t, "2025-03-11T09:00:00Z", quote.DeliveryEstimate)
	require.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestRevolutClient_FetchQuote_TokenIsReusedAcrossCalls(t *testing.T) {
	var tokenCalls int32
	srv := revolutTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rate": 1.1595, "fee": 3.49}`))
	})
	defer srv.Close()

	client := NewRevolutClient(srv.Client(), srv.URL, "client-id", "client-secret")

	_, err := client.FetchQuote(context.Background(), quoteReq())
	require.NoError(t, err)
	_, err = client.FetchQuote(context.Background(), quoteReq())
	require.NoError(t, err)

	// The cached access token has an hour of life left; one fetch serves
	// both quote calls.
	require.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestRevolutClient_FetchQuote_RetriesOnServerError(t *testing.T) {
	var tokenCalls, quoteCalls int32
	srv := revolutTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&quoteCalls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"rate": 1.1595, "fee": 3.49}`))
	})
	defer srv.Close()

	client := NewRevolutClient(srv.Client(), srv.URL, "client-id", "client-secret")

	quote, err := client.FetchQuote(context.Background(), quoteReq())

	require.NoError(t, err)
	require.True(t, d("1.1595").Equal(quote.Rate))
	require.Equal(t, int32(2), atomic.LoadInt32(&quoteCalls))
}

func TestRevolutClient_FetchQuote_NoRetryOnUnsupportedPair(t *testing.T) {
	var tokenCalls, quoteCalls int32
	srv := revolutTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&quoteCalls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "currency pair not supported"}`))
	})
	defer srv.Close()

	client := NewRevolutClient(srv.Client(), srv.URL, "client-id", "client-secret")

	_, err := client.FetchQuote(context.Background(), quoteReq())

	require.ErrorIs(t, err, domain.ErrUnsupportedPair)
	require.Equal(t, int32(1), atomic.LoadInt32(&quoteCalls))
}

func TestRevolutClient_FetchQuote_ZeroRate(t *testing.T) {
	var tokenCalls int32
	srv := revolutTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"rate": 0}`))
	})
	defer srv.Close()

	client := NewRevolutClient(srv.Client(), srv.URL, "client-id", "client-secret")

	_, err := client.FetchQuote(context.Background(), quoteReq())

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "revolut", parseErr.Provider)
}
