package subprocess

import (
	"context"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/sirupsen/logrus"
)

// ScriptAdapter fetches a quote by driving a scraper script. One instance
// serves providers without a stable API (OFX, Remitly); they share the
// positional CLI contract (amount, sourceCurrency, destCurrency,
// [countryCode], [extra]) and the stdout contract handled by Parse.
type ScriptAdapter struct {
	providerCode string
	runner       *Runner
	scriptPath   string
	countryCode  string
	extraArgs    []string
}

func NewScriptAdapter(providerCode string, runner *Runner, scriptPath, countryCode string, extraArgs ...string) *ScriptAdapter {
	return &ScriptAdapter{
		providerCode: providerCode,
		runner:       runner,
		scriptPath:   scriptPath,
		countryCode:  countryCode,
		extraArgs:    extraArgs,
	}
}

func (a *ScriptAdapter) FetchQuote(ctx context.Context, req domain.QuoteRequest) (domain.RateQuote, error) {
	args := []string{req.Amount.String(), req.FromCurrency, req.ToCurrency}
	if a.countryCode != "" {
		args = append(args, a.countryCode)
	}
	args = append(args, a.extraArgs...)

	output, runErr := a.runner.Run(ctx, a.scriptPath, args...)
	if runErr != nil && output == "" {
		return domain.RateQuote{}, &domain.ProviderError{Provider: a.providerCode, Err: runErr}
	}
	if runErr != nil {
		// A failed exit can still carry a parseable rejection message.
		logrus.WithError(runErr).Debugf("Script for %s exited non-zero, parsing output anyway", a.providerCode)
	}

	sq, err := Parse(a.providerCode, output)
	if err != nil {
		return domain.RateQuote{}, &domain.ProviderError{Provider: a.providerCode, Err: err}
	}

	quote := domain.RateQuote{
		ProviderCode:     a.providerCode,
		FromCurrency:     req.FromCurrency,
		ToCurrency:       req.ToCurrency,
		Amount:           req.Amount,
		Rate:             sq.Rate,
		Fee:              sq.Fee,
		DeliveryEstimate: sq.DeliveryEstimate,
		FetchedAt:        time.Now(),
	}
	if sq.TargetAmount.IsPositive() {
		target := sq.TargetAmount
		quote.AmountReceived = &target
	}
	return quote, nil
}
