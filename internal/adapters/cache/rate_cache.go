package cache

import (
	"fmt"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoRateCache is the in-process short-TTL cache tier. Entries are
// stored with a per-entry TTL; ristretto drops expired entries on read, so
// a stale entry is never served. Safe for concurrent use.
type RistrettoRateCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewRateCache(maxItems int64, ttl time.Duration) (*RistrettoRateCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RistrettoRateCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoRateCache) Get(key string) (domain.CacheEntry, bool) {
	if v, ok := c.cache.Get(key); ok {
		entry, ok := v.(domain.CacheEntry)
		return entry, ok
	}
	return domain.CacheEntry{}, false
}

func (c *RistrettoRateCache) Set(key string, entry domain.CacheEntry) {
	c.SetWithTTL(key, entry, 0)
}

// SetWithTTL stores the entry with the configured TTL capped by maxTTL.
// A zero maxTTL means no cap.
func (c *RistrettoRateCache) SetWithTTL(key string, entry domain.CacheEntry, maxTTL time.Duration) {
	ttl := c.ttl
	if maxTTL > 0 && maxTTL < ttl {
		ttl = maxTTL
	}
	c.cache.SetWithTTL(key, entry, 1, ttl)
	// Wait for the set buffer to drain so a follow-up Get within the same
	// request sees the entry.
	c.cache.Wait()
}

func (c *RistrettoRateCache) Delete(key string) { c.cache.Del(key) }

func (c *RistrettoRateCache) Clear() { c.cache.Clear() }

func (c *RistrettoRateCache) Close() { c.cache.Close() }
