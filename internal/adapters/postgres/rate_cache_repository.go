package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// RateCacheRepository is the persistent cache tier: one row per
// (pair, amount) key, holding every provider's last-seen raw rate as a
// JSONB map. Serialization happens only at this boundary.
type RateCacheRepository struct {
	pool *pgxpool.Pool
}

func (r *RateCacheRepository) Get(ctx context.Context, from, to string, amount decimal.Decimal, maxAge time.Duration) (domain.CacheEntry, error) {
	const q = `
		select provider_rates, fetched_at
		from cached_rates
		where from_currency = $1 and to_currency = $2 and amount = $3
		  and fetched_at > now() - $4::interval;
	`

	var (
		raw       []byte
		fetchedAt time.Time
	)
	interval := fmt.Sprintf("%d seconds", int(maxAge.Seconds()))
	err := r.pool.QueryRow(ctx, q, from, to, amount.String(), interval).Scan(&raw, &fetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CacheEntry{}, domain.ErrCacheMiss
		}
		return domain.CacheEntry{}, fmt.Errorf("failed to select cached rates for %s/%s: %w", from, to, err)
	}

	rates, deliveries, err := unmarshalProviderRates(raw)
	if err != nil {
		return domain.CacheEntry{}, fmt.Errorf("failed to decode cached rates for %s/%s: %w", from, to, err)
	}

	return domain.CacheEntry{
		FromCurrency:       from,
		ToCurrency:         to,
		Amount:             amount,
		ProviderRates:      rates,
		ProviderDeliveries: deliveries,
		FetchedAt:          fetchedAt,
	}, nil
}

func (r *RateCacheRepository) Upsert(ctx context.Context, entry domain.CacheEntry) error {
	raw, err := marshalProviderRates(entry.ProviderRates, entry.ProviderDeliveries)
	if err != nil {
		return fmt.Errorf("failed to encode rates for %s/%s: %w", entry.FromCurrency, entry.ToCurrency, err)
	}

	const q = `
		insert into cached_rates (from_currency, to_currency, amount, provider_rates, fetched_at)
		values ($1, $2, $3, $4, now())
		on conflict (from_currency, to_currency, amount) do update
		set provider_rates = excluded.provider_rates, fetched_at = now();
	`
	if _, err = r.pool.Exec(ctx, q, entry.FromCurrency, entry.ToCurrency, entry.Amount.String(), raw); err != nil {
		return fmt.Errorf("failed to upsert cached rates for %s/%s: %w", entry.FromCurrency, entry.ToCurrency, err)
	}
	return nil
}

func (r *RateCacheRepository) DeletePair(ctx context.Context, from, to string) error {
	const q = `delete from cached_rates where from_currency = $1 and to_currency = $2;`
	if _, err := r.pool.Exec(ctx, q, from, to); err != nil {
		return fmt.Errorf("failed to delete cached rates for %s/%s: %w", from, to, err)
	}
	return nil
}

func (r *RateCacheRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `delete from cached_rates;`); err != nil {
		return fmt.Errorf("failed to delete cached rates: %w", err)
	}
	return nil
}

func (r *RateCacheRepository) PurgeExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	const q = `delete from cached_rates where fetched_at <= now() - $1::interval;`
	interval := fmt.Sprintf("%d seconds", int(maxAge.Seconds()))
	tag, err := r.pool.Exec(ctx, q, interval)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired cached rates: %w", err)
	}
	return tag.RowsAffected(), nil
}

// cachedRatesJSON is the explicit wire shape of the provider_rates
// column: plain maps of provider code to decimal string and raw delivery
// estimate. Nothing framework-specific ends up in the row.
type cachedRatesJSON struct {
	Rates      map[string]string `json:"rates"`
	Deliveries map[string]string `json:"deliveries,omitempty"`
}

func marshalProviderRates(rates map[string]decimal.Decimal, deliveries map[string]string) ([]byte, error) {
	doc := cachedRatesJSON{
		Rates:      make(map[string]string, len(rates)),
		Deliveries: deliveries,
	}
	for code, rate := range rates {
		doc.Rates[code] = rate.String()
	}
	return json.Marshal(doc)
}

func unmarshalProviderRates(raw []byte) (map[string]decimal.Decimal, map[string]string, error) {
	var doc cachedRatesJSON
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, err
	}
	rates := make(map[string]decimal.Decimal, len(doc.Rates))
	for code, s := range doc.Rates {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return nil, nil, fmt.Errorf("bad rate %q for provider %q: %w", s, code, err)
		}
		rates[code] = rate
	}
	return rates, doc.Deliveries, nil
}

func NewRateCacheRepository(pool *pgxpool.Pool) *RateCacheRepository {
	return &RateCacheRepository{pool: pool}
}
