package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Method is a payment method a provider accepts for funding a transfer.
type Method string

const (
	MethodBankTransfer Method = "bank_transfer"
	MethodDebitCard    Method = "debit_card"
	MethodCreditCard   Method = "credit_card"
	MethodCash         Method = "cash"
)

// FeeType tags the variant of a provider's fee structure.
type FeeType string

const (
	FeeFlat       FeeType = "flat"
	FeePercentage FeeType = "percentage"
)

// FeeStructure describes how a provider charges for a transfer.
// Flat uses Amount only; Percentage uses Percentage with a Minimum floor
// and an optional Maximum ceiling.
type FeeStructure struct {
	Type       FeeType
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	Minimum    decimal.Decimal
	Maximum    *decimal.Decimal
}

// Convention selects how a provider's fee enters the totals.
// Exactly one convention applies per provider, picked at registry load,
// never inferred per call site.
type Convention string

const (
	// ConventionFeeDeducted: the fee is taken out of the sent amount
	// before conversion.
	ConventionFeeDeducted Convention = "fee_deducted"
	// ConventionFeeOnTop: the fee is billed separately in source
	// currency; the full amount converts.
	ConventionFeeOnTop Convention = "fee_on_top"
	// ConventionMidMarket: flat fee in source currency, zero margin,
	// fee informational only. Total cost equals the sent amount and the
	// full amount converts at the quoted rate.
	ConventionMidMarket Convention = "mid_market"
)

// TransferTime is a provider's configured delivery window in hours.
type TransferTime struct {
	MinHours int
	MaxHours int
}

// Quota holds per-provider API call limits. Zero means unlimited.
type Quota struct {
	DailyLimit   int
	MonthlyLimit int
}

// Usage tracks API calls against a provider's quota.
type Usage struct {
	Today     int
	ThisMonth int
	LastReset time.Time
}

// Provider is one money-transfer provider configuration as held by the
// registry. Static providers have APIEnabled=false and are priced off the
// mid-market baseline instead of a live fetch.
type Provider struct {
	Code         string
	Name         string
	Fee          FeeStructure
	Convention   Convention
	Margin       decimal.Decimal // markup over mid-market, as a fraction
	TransferTime TransferTime
	Methods      []Method
	APIEnabled   bool
	Active       bool
	Handler      string // adapter tag, resolved once at registry load
	Quota        Quota
}
