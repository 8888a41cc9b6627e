package comparison

import (
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Breakdown is the fully costed view of one provider's quote.
type Breakdown struct {
	EffectiveRate  decimal.Decimal
	TransferFee    decimal.Decimal
	MarginCost     decimal.Decimal
	TotalCost      decimal.Decimal
	AmountReceived decimal.Decimal
}

// TransferFee applies a provider's fee structure to an amount.
// Flat fees are clamped at zero; percentage fees are clamped to the
// configured minimum and, when set, maximum.
func TransferFee(fee domain.FeeStructure, amount decimal.Decimal) decimal.Decimal {
	switch fee.Type {
	case domain.FeePercentage:
		v := amount.Mul(fee.Percentage).Div(oneHundred)
		if v.LessThan(fee.Minimum) {
			v = fee.Minimum
		}
		if fee.Maximum != nil && v.GreaterThan(*fee.Maximum) {
			v = *fee.Maximum
		}
		return v
	default:
		if fee.Amount.IsNegative() {
			return decimal.Zero
		}
		return fee.Amount
	}
}

// Calculate builds the cost breakdown for one provider given its live rate.
// The convention decides how the fee enters the totals; exactly one
// convention applies per provider and the fields are never mixed:
//
//   - fee_deducted: the fee comes out of the sent amount before
//     conversion, totalCost = fee + marginCost.
//   - fee_on_top: the fee is billed separately in source currency, the
//     full amount converts, totalCost = amount + fee.
//   - mid_market: flat fee, zero margin, fee informational only;
//     totalCost = amount and amountReceived = amount × rate exactly.
func Calculate(fee domain.FeeStructure, convention domain.Convention, margin, rate, amount decimal.Decimal) Breakdown {
	transferFee := TransferFee(fee, amount)

	// baseRate = rate × (1 + margin), so marginCost = amount × rate × margin.
	marginCost := amount.Mul(rate).Mul(margin)

	b := Breakdown{
		EffectiveRate: rate,
		TransferFee:   transferFee.Round(2),
		MarginCost:    marginCost.Round(2),
	}

	switch convention {
	case domain.ConventionFeeOnTop:
		b.TotalCost = amount.Add(transferFee).Round(2)
		b.AmountReceived = amount.Mul(rate).Round(2)
	case domain.ConventionMidMarket:
		b.MarginCost = decimal.Zero
		b.TotalCost = amount.Round(2)
		b.AmountReceived = amount.Mul(rate).Round(2)
	default: // fee deducted from the sent amount
		converted := amount.Sub(transferFee)
		if converted.IsNegative() {
			converted = decimal.Zero
		}
		b.TotalCost = transferFee.Add(marginCost).Round(2)
		b.AmountReceived = converted.Mul(rate).Round(2)
	}
	return b
}
