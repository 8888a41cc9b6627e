package comparison

import (
	"sync"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"
)

// QuotaKeeper tracks per-provider API call counters against daily and
// monthly limits. Counters roll over lazily on read: a day boundary resets
// the daily count, a month boundary resets both. Safe for concurrent use.
type QuotaKeeper struct {
	mu    sync.Mutex
	usage map[string]domain.Usage
	now   func() time.Time
}

func NewQuotaKeeper(initial map[string]domain.Usage) *QuotaKeeper {
	usage := make(map[string]domain.Usage, len(initial))
	for code, u := range initial {
		usage[code] = u
	}
	return &QuotaKeeper{usage: usage, now: time.Now}
}

// Allow reports whether a provider may be called right now. A zero limit
// means unlimited. Returns domain.ErrQuotaExceeded when the budget is spent.
func (k *QuotaKeeper) Allow(code string, quota domain.Quota) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	u := k.rolledOver(code)
	if quota.DailyLimit > 0 && u.Today >= quota.DailyLimit {
		return domain.ErrQuotaExceeded
	}
	if quota.MonthlyLimit > 0 && u.ThisMonth >= quota.MonthlyLimit {
		return domain.ErrQuotaExceeded
	}
	return nil
}

// Record counts one successful adapter invocation.
func (k *QuotaKeeper) Record(code string) {
	k.mu.Lock()
	defer k.mu.Unlock()

	u := k.rolledOver(code)
	u.Today++
	u.ThisMonth++
	k.usage[code] = u
}

// Usage returns the current counters for one provider, after rollover.
func (k *QuotaKeeper) Usage(code string) domain.Usage {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.rolledOver(code)
}

// Snapshot copies all counters, for periodic persistence.
func (k *QuotaKeeper) Snapshot() map[string]domain.Usage {
	k.mu.Lock()
	defer k.mu.Unlock()

	out := make(map[string]domain.Usage, len(k.usage))
	for code, u := range k.usage {
		out[code] = u
	}
	return out
}

// rolledOver applies day/month boundary resets and stores the result.
// Caller must hold the mutex.
func (k *QuotaKeeper) rolledOver(code string) domain.Usage {
	now := k.now()
	u, ok := k.usage[code]
	if !ok {
		u = domain.Usage{LastReset: now}
		k.usage[code] = u
		return u
	}

	if u.LastReset.Year() != now.Year() || u.LastReset.Month() != now.Month() {
		u.Today = 0
		u.ThisMonth = 0
		u.LastReset = now
	} else if u.LastReset.YearDay() != now.YearDay() {
		u.Today = 0
		u.LastReset = now
	}
	k.usage[code] = u
	return u
}
