package subprocess

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
)

// Scraper scripts have one guaranteed-parseable channel: a single stdout
// line prefixed "JSON_OUTPUT: " holding a JSON object. It is always tried
// first and preferred; its "error" field is the structured channel for
// pair rejections. Everything else in this file is a degraded-mode
// fallback for older scripts that only print a human-readable table:
// box-drawing table rows, labeled-line scanning, and as a last resort
// positional numeric tokens. Free-text rejection wording only classifies
// the output once no labeled stage has produced a usable quote, so
// incidental chatter ("credit card not supported") cannot defeat one.
// Exhaustion yields a typed ParseError, never a panic.

// jsonMarker is the structured stdout contract of the scraper scripts.
const jsonMarker = "JSON_OUTPUT: "

// ScrapedQuote is what a scraper run yields before normalization into a
// RateQuote.
type ScrapedQuote struct {
	Rate             decimal.Decimal
	Fee              decimal.Decimal
	TargetAmount     decimal.Decimal // zero when the script does not report it
	DeliveryEstimate string
}

type jsonPayload struct {
	Rate            *decimal.Decimal `json:"rate"`
	ExchangeRate    *decimal.Decimal `json:"exchange_rate"`
	Fee             *decimal.Decimal `json:"fee"`
	TransferFee     *decimal.Decimal `json:"transfer_fee"`
	TargetAmount    *decimal.Decimal `json:"target_amount"`
	RecipientAmount *decimal.Decimal `json:"recipient_amount"`
	Delivery        string           `json:"delivery_estimate"`
	TransferTime    string           `json:"transfer_time"`
	Error           string           `json:"error"`
}

var (
	// Row variants cover Unix box-drawing borders and the plain ASCII
	// pipes Windows builds of the scrapers emit.
	tableRowVariants = []*regexp.Regexp{
		regexp.MustCompile(`│\s*([^│]+?)\s*│\s*([^│]+?)\s*│`),
		regexp.MustCompile(`┃\s*([^┃]+?)\s*┃\s*([^┃]+?)\s*┃`),
		regexp.MustCompile(`\|\s*([^|]+?)\s*\|\s*([^|]+?)\s*\|`),
	}

	numberRe = regexp.MustCompile(`-?\d+(?:,\d{3})*(?:\.\d+)?`)

	rejectionMarkers = []string{
		"unsupported", "not supported", "invalid currency", "currency pair not available",
		"no quote available", "corridor not available",
	}
)

// Parse runs the stage cascade over a scraper's combined output.
func Parse(provider, output string) (ScrapedQuote, error) {
	if sq, scriptErr, found := parseJSONMarker(output); found {
		if sq.Rate.IsPositive() {
			return sq, nil
		}
		if scriptErr != "" {
			if isPairRejection(scriptErr) {
				return ScrapedQuote{}, domain.ErrUnsupportedPair
			}
			return ScrapedQuote{}, &domain.ParseError{Provider: provider, Stage: "script_error", Raw: snippet(scriptErr)}
		}
		// Zero rate without a reported error: degraded stages may still
		// find a quote elsewhere in the output.
	}
	if sq, ok := parseTable(output); ok {
		return sq, nil
	}
	if sq, ok := parseLabeledLines(output); ok {
		return sq, nil
	}
	// Rejection wording is checked before the positional-token stage:
	// that stage would happily read digits out of an error message.
	if isPairRejection(output) {
		return ScrapedQuote{}, domain.ErrUnsupportedPair
	}
	if sq, ok := parseNumericTokens(output); ok {
		return sq, nil
	}

	return ScrapedQuote{}, &domain.ParseError{Provider: provider, Stage: "exhausted", Raw: snippet(output)}
}

func isPairRejection(output string) bool {
	lower := strings.ToLower(output)
	for _, marker := range rejectionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// parseJSONMarker handles the preferred structured contract. found is
// true when a marker line decoded, whether or not it held a usable
// quote; scriptErr carries the payload's own error report.
func parseJSONMarker(output string) (sq ScrapedQuote, scriptErr string, found bool) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, jsonMarker) {
			continue
		}

		var p jsonPayload
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, jsonMarker)), &p); err != nil {
			return ScrapedQuote{}, "", false
		}

		sq = ScrapedQuote{DeliveryEstimate: p.Delivery}
		if sq.DeliveryEstimate == "" {
			sq.DeliveryEstimate = p.TransferTime
		}
		if p.Rate != nil {
			sq.Rate = *p.Rate
		} else if p.ExchangeRate != nil {
			sq.Rate = *p.ExchangeRate
		}
		if p.Fee != nil {
			sq.Fee = *p.Fee
		} else if p.TransferFee != nil {
			sq.Fee = *p.TransferFee
		}
		if p.TargetAmount != nil {
			sq.TargetAmount = *p.TargetAmount
		} else if p.RecipientAmount != nil {
			sq.TargetAmount = *p.RecipientAmount
		}

		return sq, strings.TrimSpace(p.Error), true
	}
	return ScrapedQuote{}, "", false
}

// parseTable extracts label/value cells from box-drawing or ASCII table
// rows. Degraded mode: only used when the JSON marker is absent.
func parseTable(output string) (ScrapedQuote, bool) {
	var sq ScrapedQuote
	found := false

	for _, line := range strings.Split(output, "\n") {
		for _, rowRe := range tableRowVariants {
			m := rowRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if applyLabeledValue(&sq, m[1], m[2]) {
				found = true
			}
			break
		}
	}
	return sq, found && sq.Rate.IsPositive()
}

// parseLabeledLines scans free-form lines for expected field labels.
// Degraded mode two.
func parseLabeledLines(output string) (ScrapedQuote, bool) {
	var sq ScrapedQuote
	found := false

	for _, line := range strings.Split(output, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			// Lines like "Recipient gets 1144.25" have no colon.
			label, value = line, line
		}
		if applyLabeledValue(&sq, label, value) {
			found = true
		}
	}
	return sq, found && sq.Rate.IsPositive()
}

// applyLabeledValue classifies a label and fills the matching field.
func applyLabeledValue(sq *ScrapedQuote, label, value string) bool {
	lower := strings.ToLower(label)
	switch {
	case strings.Contains(lower, "rate"):
		if v, ok := firstNumber(value); ok && sq.Rate.IsZero() {
			sq.Rate = v
			return true
		}
	case strings.Contains(lower, "fee"):
		if v, ok := firstNumber(value); ok && sq.Fee.IsZero() {
			sq.Fee = v
			return true
		}
	case strings.Contains(lower, "recipient"), strings.Contains(lower, "receive"),
		strings.Contains(lower, "target"), strings.Contains(lower, "gets"):
		if v, ok := firstNumber(value); ok && sq.TargetAmount.IsZero() {
			sq.TargetAmount = v
			return true
		}
	case strings.Contains(lower, "delivery"), strings.Contains(lower, "transfer time"),
		strings.Contains(lower, "arrives"):
		if sq.DeliveryEstimate == "" {
			sq.DeliveryEstimate = strings.TrimSpace(value)
			return true
		}
	}
	return false
}

// parseNumericTokens is the last resort: every numeric token in the
// output, mapped positionally as (rate, fee, targetAmount).
func parseNumericTokens(output string) (ScrapedQuote, bool) {
	tokens := numberRe.FindAllString(output, -1)
	if len(tokens) == 0 {
		return ScrapedQuote{}, false
	}

	values := make([]decimal.Decimal, 0, 3)
	for _, tok := range tokens {
		v, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
		if err != nil {
			continue
		}
		values = append(values, v)
		if len(values) == 3 {
			break
		}
	}
	if len(values) == 0 || !values[0].IsPositive() {
		return ScrapedQuote{}, false
	}

	sq := ScrapedQuote{Rate: values[0]}
	if len(values) > 1 {
		sq.Fee = values[1]
	}
	if len(values) > 2 {
		sq.TargetAmount = values[2]
	}
	return sq, true
}

func firstNumber(s string) (decimal.Decimal, bool) {
	tok := numberRe.FindString(s)
	if tok == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// snippet bounds the raw payload kept on a ParseError for diagnostics.
func snippet(output string) string {
	const maxLen = 512
	trimmed := strings.TrimSpace(output)
	if len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
