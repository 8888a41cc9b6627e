package comparison

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"
)

// Delivery estimates arrive in wildly different shapes: rail-type tags,
// free-form "2-3 business days" strings, ISO timestamps, or nothing at all.
// NormalizeDeliveryTime flattens them all into an hour window. It is pure
// and total: given the same (input, pair, now) it always returns the same
// window and never fails.

var (
	hoursRangeRe = regexp.MustCompile(`(?i)(\d+)\s*[-–]\s*(\d+)\s*hours?`)
	hoursRe      = regexp.MustCompile(`(?i)(\d+)\s*hours?`)
	daysRangeRe  = regexp.MustCompile(`(?i)(\d+)\s*[-–]\s*(\d+)\s*(?:business\s+)?days?`)
	daysRe       = regexp.MustCompile(`(?i)(\d+)\s*(?:business\s+)?days?`)
)

// pastGraceWindow tolerates provider clocks slightly ahead of ours: an
// estimate "in the past" by less than this is treated as instant.
const pastGraceWindow = time.Hour

// knownCorridors maps FROM:TO pairs with well-understood delivery
// behavior to canned estimates, used when a provider gives nothing better.
var knownCorridors = map[string]domain.TransferTimeEstimate{
	"GBP:EUR": {Text: "1-2 days", MinHours: 24, MaxHours: 48},
	"EUR:GBP": {Text: "1-2 days", MinHours: 24, MaxHours: 48},
	"GBP:USD": {Text: "1-2 days", MinHours: 24, MaxHours: 48},
	"USD:GBP": {Text: "1-2 days", MinHours: 24, MaxHours: 48},
	"GBP:INR": {Text: "1-3 days", MinHours: 24, MaxHours: 72},
	"USD:INR": {Text: "1-3 days", MinHours: 24, MaxHours: 72},
	"USD:MXN": {Text: "Same day", MinHours: 0, MaxHours: 24},
	"USD:PHP": {Text: "Same day", MinHours: 0, MaxHours: 24},
}

var fallbackEstimate = domain.TransferTimeEstimate{Text: "2-3 days", MinHours: 48, MaxHours: 72}

// NormalizeDeliveryTime converts a raw delivery representation into an
// {minHours, maxHours} window with a display label. Rules are tried in
// order: rail keywords, duration patterns, "same day", ISO timestamps,
// the known-corridor table, then an absolute {48,72} fallback.
func NormalizeDeliveryTime(input, from, to string, now time.Time) domain.TransferTimeEstimate {
	raw := strings.TrimSpace(input)
	upper := strings.ToUpper(raw)

	if est, ok := fromRailType(upper); ok {
		return est
	}
	if est, ok := fromDurationPattern(raw); ok {
		return est
	}
	if strings.Contains(strings.ToLower(raw), "same day") {
		return domain.TransferTimeEstimate{Text: "Same day", MinHours: 0, MaxHours: 24}
	}
	if est, ok := fromTimestamp(raw, now); ok {
		return est
	}
	if est, ok := knownCorridors[strings.ToUpper(from)+":"+strings.ToUpper(to)]; ok {
		return est
	}
	return fallbackEstimate
}

func fromRailType(upper string) (domain.TransferTimeEstimate, bool) {
	switch {
	case strings.Contains(upper, "LOCAL"):
		return domain.TransferTimeEstimate{Text: "Instant", MinHours: 0, MaxHours: 1}, true
	case strings.Contains(upper, "SWIFT"):
		return domain.TransferTimeEstimate{Text: "1-2 days", MinHours: 24, MaxHours: 48}, true
	case strings.Contains(upper, "CASH_PAYOUT") || strings.Contains(upper, "CASH PAYOUT"):
		return domain.TransferTimeEstimate{Text: "Within hours", MinHours: 0, MaxHours: 4}, true
	case strings.Contains(upper, "VISA"), strings.Contains(upper, "MASTERCARD"), strings.Contains(upper, "CARD"):
		// Card rails are instant only with a fast-funds flag.
		if strings.Contains(upper, "FAST_FUNDS") || strings.Contains(upper, "FAST FUNDS") {
			return domain.TransferTimeEstimate{Text: "Instant", MinHours: 0, MaxHours: 1}, true
		}
		return domain.TransferTimeEstimate{Text: "1-2 days", MinHours: 24, MaxHours: 48}, true
	}
	return domain.TransferTimeEstimate{}, false
}

func fromDurationPattern(raw string) (domain.TransferTimeEstimate, bool) {
	if m := hoursRangeRe.FindStringSubmatch(raw); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return estimateFromHours(lo, hi), true
	}
	if m := hoursRe.FindStringSubmatch(raw); m != nil {
		h, _ := strconv.Atoi(m[1])
		return estimateFromHours(0, h), true
	}
	if m := daysRangeRe.FindStringSubmatch(raw); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return estimateFromHours(lo*24, hi*24), true
	}
	if m := daysRe.FindStringSubmatch(raw); m != nil {
		d, _ := strconv.Atoi(m[1])
		return estimateFromHours((d-1)*24, d*24), true
	}
	return domain.TransferTimeEstimate{}, false
}

func fromTimestamp(raw string, now time.Time) (domain.TransferTimeEstimate, bool) {
	var ts time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if ts, err = time.Parse(layout, raw); err == nil {
			break
		}
	}
	if err != nil {
		return domain.TransferTimeEstimate{}, false
	}

	diff := ts.Sub(now)
	switch {
	case diff <= 0 && diff > -pastGraceWindow:
		// Provider clock slightly ahead: the money is effectively there.
		return domain.TransferTimeEstimate{Text: "Instant", MinHours: 0, MaxHours: 1}, true
	case diff <= -pastGraceWindow:
		// A long-stale estimate says nothing useful; never emit a
		// negative window.
		return domain.TransferTimeEstimate{Text: "1-2 days", MinHours: 24, MaxHours: 48}, true
	default:
		h := int(math.Ceil(diff.Hours()))
		if h < 1 {
			h = 1
		}
		return estimateFromHours(0, h), true
	}
}

func estimateFromHours(lo, hi int) domain.TransferTimeEstimate {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	return domain.TransferTimeEstimate{Text: labelForWindow(lo, hi), MinHours: lo, MaxHours: hi}
}

func labelForWindow(lo, hi int) string {
	switch {
	case hi <= 1:
		return "Instant"
	case hi <= 24:
		return "Same day"
	default:
		loDays := lo / 24
		hiDays := (hi + 23) / 24
		if loDays < 1 {
			loDays = 1
		}
		if loDays == hiDays {
			if hiDays == 1 {
				return "1 day"
			}
			return fmt.Sprintf("%d days", hiDays)
		}
		return fmt.Sprintf("%d-%d days", loDays, hiDays)
	}
}
