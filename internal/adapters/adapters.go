package adapters

import (
	"context"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
)

// QuoteAdapter fetches and normalizes a single provider's quote. One
// implementation exists per external source; the registry resolves the
// provider's handler tag to an adapter once at load.
type QuoteAdapter interface {
	FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.RateQuote, error)
}

// ProviderRepository reads and writes persisted provider configurations.
type ProviderRepository interface {
	GetAll(ctx context.Context) ([]domain.Provider, error)
	Upsert(ctx context.Context, p domain.Provider) error
}

// RateCacheRepository is the persistent cache tier: one row per
// (pair, amount) key holding all providers' last-seen raw rates.
type RateCacheRepository interface {
	Get(ctx context.Context, from, to string, amount decimal.Decimal, maxAge time.Duration) (domain.CacheEntry, error)
	Upsert(ctx context.Context, entry domain.CacheEntry) error
	DeletePair(ctx context.Context, from, to string) error
	DeleteAll(ctx context.Context) error
	PurgeExpired(ctx context.Context, maxAge time.Duration) (int64, error)
}

// UsageRepository persists per-provider quota usage counters so quota
// state survives restarts.
type UsageRepository interface {
	GetAll(ctx context.Context) (map[string]domain.Usage, error)
	Save(ctx context.Context, code string, usage domain.Usage) error
}

// MemoryRateCache is the short-lived in-process cache tier for raw rate
// maps. SetWithTTL stores with the configured TTL capped by maxTTL, so a
// promoted persistent-tier entry cannot outlive its remaining persistent
// lifetime. Implementations must be safe for concurrent use.
type MemoryRateCache interface {
	Get(key string) (domain.CacheEntry, bool)
	Set(key string, entry domain.CacheEntry)
	SetWithTTL(key string, entry domain.CacheEntry, maxTTL time.Duration)
	Delete(key string)
	Clear()
}
