package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateQuote is the normalized answer of one provider adapter for one
// currency pair and amount. It is ephemeral: it feeds the calculator and
// the raw-rate cache, and is never persisted as-is.
type RateQuote struct {
	ProviderCode     string
	FromCurrency     string
	ToCurrency       string
	Amount           decimal.Decimal
	Rate             decimal.Decimal
	Fee              decimal.Decimal
	AmountReceived   *decimal.Decimal // set when the provider reports the target amount itself
	DeliveryEstimate string           // raw provider representation, normalized later
	FetchedAt        time.Time
}

// QuoteRequest identifies what an adapter should fetch.
type QuoteRequest struct {
	FromCurrency string
	ToCurrency   string
	Amount       decimal.Decimal
}
