package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferTimeEstimate is the normalized delivery window for one result.
type TransferTimeEstimate struct {
	Text     string
	MinHours int
	MaxHours int
}

// ComparisonResult is one row of a comparison response: a provider's fully
// costed quote. Results are derived per request and never stored.
type ComparisonResult struct {
	ProviderCode   string
	ProviderName   string
	EffectiveRate  decimal.Decimal
	TransferFee    decimal.Decimal
	MarginCost     decimal.Decimal
	TotalCost      decimal.Decimal
	AmountReceived decimal.Decimal
	TransferTime   TransferTimeEstimate
	Methods        []Method
}

// CacheEntry aggregates all providers' last-seen raw rates for one
// (pair, amount) key, plus the raw delivery estimates that came with
// them so cached comparisons reproduce exactly. An entry older than TTL
// must never be served.
type CacheEntry struct {
	FromCurrency       string
	ToCurrency         string
	Amount             decimal.Decimal
	ProviderRates      map[string]decimal.Decimal
	ProviderDeliveries map[string]string
	FetchedAt          time.Time
}
