package subprocess

import (
	"errors"
	"strings"
	"testing"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// --- JSON marker stage ---

func TestParse_JSONMarker(t *testing.T) {
	output := `fetching quote...
JSON_OUTPUT: {"rate": 1.1523, "fee": 4.5, "target_amount": 1147.12, "delivery_estimate": "1-2 days"}
done`

	sq, err := Parse("ofx", output)

	require.NoError(t, err)
	require.True(t, d("1.1523").Equal(sq.Rate))
	require.True(t, d("4.5").Equal(sq.Fee))
	require.True(t, d("1147.12").Equal(sq.TargetAmount))
	require.Equal(t, "1-2 days", sq.DeliveryEstimate)
}

func TestParse_JSONMarkerFieldAliases(t *testing.T) {
	output := `JSON_OUTPUT: {"exchange_rate": 1.1523, "transfer_fee": 4.5, "recipient_amount": 1147.12, "transfer_time": "2-3 business days"}`

	sq, err := Parse("remitly", output)

	require.NoError(t, err)
	require.True(t, d("1.1523").Equal(sq.Rate))
	require.True(t, d("4.5").Equal(sq.Fee))
	require.True(t, d("1147.12").Equal(sq.TargetAmount))
	require.Equal(t, "2-3 business days", sq.DeliveryEstimate)
}

func TestParse_JSONMarkerPreferredOverTable(t *testing.T) {
	// Both channels present: the structured one must win.
	output := `│ Rate │ 9.9999 │
JSON_OUTPUT: {"rate": 1.1523}`

	sq, err := Parse("ofx", output)

	require.NoError(t, err)
	require.True(t, d("1.1523").Equal(sq.Rate))
}

func TestParse_JSONMarkerWinsOverRejectionChatter(t *testing.T) {
	// Incidental rejection wording in the chatter must not defeat a
	// structured quote.
	output := `Note: payments by credit card are not supported for this corridor.
JSON_OUTPUT: {"rate": 1.15, "fee": 3.2}`

	sq, err := Parse("ofx", output)

	require.NoError(t, err)
	require.True(t, d("1.15").Equal(sq.Rate))
	require.True(t, d("3.2").Equal(sq.Fee))
}

func TestParse_JSONMarkerErrorFieldReportsRejection(t *testing.T) {
	output := `JSON_OUTPUT: {"error": "currency pair not available"}`

	_, err := Parse("ofx", output)

	require.ErrorIs(t, err, domain.ErrUnsupportedPair)
}

func TestParse_JSONMarkerErrorFieldYieldsParseError(t *testing.T) {
	output := `JSON_OUTPUT: {"error": "upstream timeout while loading quote page"}`

	_, err := Parse("remitly", output)

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "remitly", parseErr.Provider)
	require.Equal(t, "script_error", parseErr.Stage)
	require.Equal(t, "upstream timeout while loading quote page", parseErr.Raw)
}

// --- Table stage ---

func TestParse_BoxDrawingTable(t *testing.T) {
	output := `┌──────────┬──────────┐
│ Rate     │ 1.1523   │
│ Fee      │ 4.50     │
│ Recipient│ 1,147.12 │
│ Delivery │ 1-2 days │
└──────────┴──────────┘`

	sq, err := Parse("ofx", output)

	require.NoError(t, err)
	require.True(t, d("1.1523").Equal(sq.Rate))
	require.True(t, d("4.50").Equal(sq.Fee))
	require.True(t, d("1147.12").Equal(sq.TargetAmount))
	require.Equal(t, "1-2 days", sq.DeliveryEstimate)
}

func TestParse_ASCIIPipeTable(t *testing.T) {
	output := `| Rate | 1.1523 |
| Fee  | 4.50   |`

	sq, err := Parse("ofx", output)

	require.NoError(t, err)
	require.True(t, d("1.1523").Equal(sq.Rate))
	require.True(t, d("4.50").Equal(sq.Fee))
}

// --- Labeled line stage ---

func TestParse_LabeledLines(t *testing.T) {
	output := `Exchange rate: 1.1523
Transfer fee: 4.50
Recipient gets 1147.12
Arrives: 2-3 business days`

	sq, err := Parse("remitly", output)

	require.NoError(t, err)
	require.True(t, d("1.1523").Equal(sq.Rate))
	require.True(t, d("4.50").Equal(sq.Fee))
	require.True(t, d("1147.12").Equal(sq.TargetAmount))
	require.Equal(t, "2-3 business days", sq.DeliveryEstimate)
}

// --- Numeric token stage ---

func TestParse_NumericTokensLastResort(t *testing.T) {
	output := "1.1523 4.50 1147.12"

	sq, err := Parse("ofx", output)

	require.NoError(t, err)
	require.True(t, d("1.1523").Equal(sq.Rate))
	require.True(t, d("4.50").Equal(sq.Fee))
	require.True(t, d("1147.12").Equal(sq.TargetAmount))
}

func TestParse_NumericTokensStripThousandsSeparators(t *testing.T) {
	output := "1.1523 4.50 1,147.12"

	sq, err := Parse("ofx", output)

	require.NoError(t, err)
	require.True(t, d("1147.12").Equal(sq.TargetAmount))
}

// --- Rejection and exhaustion ---

func TestParse_PairRejection(t *testing.T) {
	for _, output := range []string{
		"ERROR: currency pair not available",
		"This corridor not available in your region",
		"unsupported currency combination",
	} {
		_, err := Parse("ofx", output)
		require.ErrorIs(t, err, domain.ErrUnsupportedPair, "output: %s", output)
	}
}

func TestParse_RejectionDigitsDoNotBecomeAQuote(t *testing.T) {
	// The positional-token stage must not read a rate out of an error
	// message's digits.
	_, err := Parse("ofx", "HTTP 422: currency pair not available")

	require.ErrorIs(t, err, domain.ErrUnsupportedPair)
}

func TestParse_ExhaustedYieldsParseError(t *testing.T) {
	_, err := Parse("ofx", "nothing useful here")

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "ofx", parseErr.Provider)
	require.Equal(t, "exhausted", parseErr.Stage)
	require.Equal(t, "nothing useful here", parseErr.Raw)
}

func TestParse_ParseErrorSnippetIsBounded(t *testing.T) {
	_, err := Parse("ofx", strings.Repeat("x", 10_000))

	var parseErr *domain.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.LessOrEqual(t, len(parseErr.Raw), 512)
}

func TestParse_ZeroRateJSONFallsThrough(t *testing.T) {
	// A zero rate in the JSON payload is not a usable quote; with nothing
	// else in the output the cascade exhausts.
	_, err := Parse("ofx", `JSON_OUTPUT: {"rate": 0}`)

	var parseErr *domain.ParseError
	require.True(t, errors.As(err, &parseErr))
}
