package comparison

import (
	"testing"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/stretchr/testify/require"
)

var normalizeNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNormalizeDeliveryTime_RailTypes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  domain.TransferTimeEstimate
	}{
		{"local rail", "LOCAL", domain.TransferTimeEstimate{Text: "Instant", MinHours: 0, MaxHours: 1}},
		{"swift rail", "SWIFT", domain.TransferTimeEstimate{Text: "1-2 days", MinHours: 24, MaxHours: 48}},
		{"cash payout", "CASH_PAYOUT", domain.TransferTimeEstimate{Text: "Within hours", MinHours: 0, MaxHours: 4}},
		{"plain card", "VISA_CARD", domain.TransferTimeEstimate{Text: "1-2 days", MinHours: 24, MaxHours: 48}},
		{"card with fast funds", "VISA FAST_FUNDS", domain.TransferTimeEstimate{Text: "Instant", MinHours: 0, MaxHours: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeDeliveryTime(tc.input, "GBP", "EUR", normalizeNow)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeDeliveryTime_DurationPatterns(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  domain.TransferTimeEstimate
	}{
		{"business days range", "2-3 business days", domain.TransferTimeEstimate{Text: "2-3 days", MinHours: 48, MaxHours: 72}},
		{"plain days range", "1-2 days", domain.TransferTimeEstimate{Text: "1-2 days", MinHours: 24, MaxHours: 48}},
		{"single day", "1 day", domain.TransferTimeEstimate{Text: "Same day", MinHours: 0, MaxHours: 24}},
		{"hours range", "2-4 hours", domain.TransferTimeEstimate{Text: "Same day", MinHours: 2, MaxHours: 4}},
		{"single hours", "within 6 hours", domain.TransferTimeEstimate{Text: "Same day", MinHours: 0, MaxHours: 6}},
		{"same day", "arrives same day", domain.TransferTimeEstimate{Text: "Same day", MinHours: 0, MaxHours: 24}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeDeliveryTime(tc.input, "GBP", "EUR", normalizeNow)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeDeliveryTime_FutureTimestamp(t *testing.T) {
	ts := normalizeNow.Add(36 * time.Hour).Format(time.RFC3339)

	got := NormalizeDeliveryTime(ts, "GBP", "EUR", normalizeNow)

	require.Equal(t, 0, got.MinHours)
	require.Equal(t, 36, got.MaxHours)
}

func TestNormalizeDeliveryTime_SlightlyPastTimestampIsInstant(t *testing.T) {
	// Provider clock runs a little ahead of ours.
	ts := normalizeNow.Add(-30 * time.Second).Format(time.RFC3339)

	got := NormalizeDeliveryTime(ts, "GBP", "EUR", normalizeNow)

	require.Equal(t, domain.TransferTimeEstimate{Text: "Instant", MinHours: 0, MaxHours: 1}, got)
}

func TestNormalizeDeliveryTime_StaleTimestampNeverNegative(t *testing.T) {
	ts := normalizeNow.Add(-72 * time.Hour).Format(time.RFC3339)

	got := NormalizeDeliveryTime(ts, "GBP", "EUR", normalizeNow)

	require.GreaterOrEqual(t, got.MinHours, 0)
	require.Equal(t, domain.TransferTimeEstimate{Text: "1-2 days", MinHours: 24, MaxHours: 48}, got)
}

func TestNormalizeDeliveryTime_KnownCorridor(t *testing.T) {
	got := NormalizeDeliveryTime("", "USD", "MXN", normalizeNow)

	require.Equal(t, domain.TransferTimeEstimate{Text: "Same day", MinHours: 0, MaxHours: 24}, got)
}

func TestNormalizeDeliveryTime_Fallback(t *testing.T) {
	got := NormalizeDeliveryTime("", "SEK", "NOK", normalizeNow)

	require.Equal(t, domain.TransferTimeEstimate{Text: "2-3 days", MinHours: 48, MaxHours: 72}, got)
}

func TestNormalizeDeliveryTime_GarbageInputFallsBack(t *testing.T) {
	got := NormalizeDeliveryTime("¯\\_(ツ)_/¯", "SEK", "NOK", normalizeNow)

	require.Equal(t, fallbackEstimate, got)
}

func TestNormalizeDeliveryTime_DeterministicForFixedNow(t *testing.T) {
	ts := normalizeNow.Add(20 * time.Hour).Format(time.RFC3339)

	first := NormalizeDeliveryTime(ts, "GBP", "EUR", normalizeNow)
	second := NormalizeDeliveryTime(ts, "GBP", "EUR", normalizeNow)

	require.Equal(t, first, second)
}
