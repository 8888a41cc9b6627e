package comparison

import (
	"testing"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/stretchr/testify/require"
)

func newTestKeeper(initial map[string]domain.Usage, now time.Time) *QuotaKeeper {
	k := NewQuotaKeeper(initial)
	k.now = func() time.Time { return now }
	return k
}

func TestQuotaKeeper_AllowWithinLimits(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	k := newTestKeeper(nil, now)

	err := k.Allow("wise", domain.Quota{DailyLimit: 2, MonthlyLimit: 10})

	require.NoError(t, err)
}

func TestQuotaKeeper_DailyLimitExceeded(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	k := newTestKeeper(nil, now)
	quota := domain.Quota{DailyLimit: 2, MonthlyLimit: 10}

	k.Record("wise")
	k.Record("wise")

	err := k.Allow("wise", quota)

	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestQuotaKeeper_MonthlyLimitExceeded(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	initial := map[string]domain.Usage{
		"wise": {Today: 0, ThisMonth: 100, LastReset: now.Add(-time.Hour)},
	}
	k := newTestKeeper(initial, now)

	err := k.Allow("wise", domain.Quota{DailyLimit: 50, MonthlyLimit: 100})

	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
}

func TestQuotaKeeper_ZeroLimitMeansUnlimited(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	initial := map[string]domain.Usage{
		"wise": {Today: 99999, ThisMonth: 99999, LastReset: now},
	}
	k := newTestKeeper(initial, now)

	err := k.Allow("wise", domain.Quota{})

	require.NoError(t, err)
}

func TestQuotaKeeper_DayRolloverResetsDailyOnly(t *testing.T) {
	yesterday := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	initial := map[string]domain.Usage{
		"wise": {Today: 5, ThisMonth: 20, LastReset: yesterday},
	}
	k := newTestKeeper(initial, yesterday.Add(2*time.Hour))

	u := k.Usage("wise")

	require.Equal(t, 0, u.Today)
	require.Equal(t, 20, u.ThisMonth)
}

func TestQuotaKeeper_MonthRolloverResetsBoth(t *testing.T) {
	endOfFeb := time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC)
	initial := map[string]domain.Usage{
		"wise": {Today: 5, ThisMonth: 450, LastReset: endOfFeb},
	}
	k := newTestKeeper(initial, time.Date(2025, 3, 1, 0, 5, 0, 0, time.UTC))

	u := k.Usage("wise")

	require.Equal(t, 0, u.Today)
	require.Equal(t, 0, u.ThisMonth)
}

func TestQuotaKeeper_RecordIncrementsBothCounters(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	k := newTestKeeper(nil, now)

	k.Record("wise")
	k.Record("wise")
	k.Record("revolut")

	require.Equal(t, 2, k.Usage("wise").Today)
	require.Equal(t, 2, k.Usage("wise").ThisMonth)
	require.Equal(t, 1, k.Usage("revolut").Today)
}

func TestQuotaKeeper_SnapshotCopiesCounters(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	k := newTestKeeper(nil, now)
	k.Record("wise")

	snap := k.Snapshot()
	snap["wise"] = domain.Usage{Today: 999}

	require.Equal(t, 1, k.Usage("wise").Today)
}
