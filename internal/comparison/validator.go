package comparison

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	ErrFromRequired  = errors.New("fromCurrency is required")
	ErrToRequired    = errors.New("toCurrency is required")
	ErrSameCurrency  = errors.New("fromCurrency and toCurrency must be different")
	ErrBadCurrency   = errors.New("currency must be a 3-letter code")
	ErrAmountMissing = errors.New("amount is required")
	ErrBadAmount     = errors.New("amount must be a positive number")
)

var currencyCodeRe = regexp.MustCompile(`^[A-Za-z]{3}$`)

// RequestValidator checks compare request parameters before they reach
// the orchestrator.
type RequestValidator struct {
	maxAmount decimal.Decimal
}

func NewRequestValidator() *RequestValidator {
	// Above this the comparison is meaningless in practice and some
	// providers reject the quote outright.
	return &RequestValidator{maxAmount: decimal.NewFromInt(1_000_000)}
}

func (v *RequestValidator) ValidatePair(from, to string) error {
	if from == "" {
		return ErrFromRequired
	}
	if to == "" {
		return ErrToRequired
	}
	if !currencyCodeRe.MatchString(from) || !currencyCodeRe.MatchString(to) {
		return ErrBadCurrency
	}
	if from == to {
		return ErrSameCurrency
	}
	return nil
}

func (v *RequestValidator) ValidateAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, ErrAmountMissing
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || !amount.IsPositive() || amount.GreaterThan(v.maxAmount) {
		return decimal.Zero, ErrBadAmount
	}
	return amount, nil
}
