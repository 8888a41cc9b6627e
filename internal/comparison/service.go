package comparison

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/adapters"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProviderRegistry is the slice of the registry the orchestrator needs.
type ProviderRegistry interface {
	Active() []domain.Provider
	ActiveStatic() []domain.Provider
	Get(code string) (domain.Provider, error)
	Adapter(handler string) (adapters.QuoteAdapter, bool)
}

// Options bounds the orchestrator's timing and fallback behavior.
type Options struct {
	ProviderTimeout  time.Duration
	OverallTimeout   time.Duration
	PersistentTTL    time.Duration
	FallbackProvider string
}

// Service is the fetch orchestrator: it fans out to every enabled
// provider adapter concurrently, contains individual failures, merges the
// survivors into sorted comparison results, and writes through both cache
// tiers.
type Service struct {
	registry   ProviderRegistry
	memory     adapters.MemoryRateCache
	persistent adapters.RateCacheRepository // nil when the store is not configured
	quota      *QuotaKeeper
	metrics    *metrics.ComparisonMetrics
	opts       Options
}

func NewService(reg ProviderRegistry, memory adapters.MemoryRateCache, persistent adapters.RateCacheRepository, quota *QuotaKeeper, m *metrics.ComparisonMetrics, opts Options) *Service {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 12 * time.Second
	}
	if opts.OverallTimeout <= 0 {
		opts.OverallTimeout = 25 * time.Second
	}
	if opts.PersistentTTL <= 0 {
		opts.PersistentTTL = time.Hour
	}
	return &Service{
		registry:   reg,
		memory:     memory,
		persistent: persistent,
		quota:      quota,
		metrics:    m,
		opts:       opts,
	}
}

type fetchResult struct {
	provider domain.Provider
	quote    domain.RateQuote
	err      error
}

// Compare returns one costed result per provider for the requested
// corridor and amount, sorted by amount received descending. Only the
// aggregate "nothing worked" condition is an error; individual provider
// failures are contained, logged and excluded.
func (s *Service) Compare(ctx context.Context, fromCurrency, toCurrency string, amount decimal.Decimal) ([]domain.ComparisonResult, error) {
	from := strings.ToUpper(strings.TrimSpace(fromCurrency))
	to := strings.ToUpper(strings.TrimSpace(toCurrency))
	key := cacheKey(from, to, amount)
	execID := uuid.NewString()

	// Tier 1: in-process cache. A hit answers without any network call.
	if entry, ok := s.memory.Get(key); ok {
		s.metrics.CacheHitsTotal.WithLabelValues("memory").Inc()
		return s.respond(entry)
	}

	// Tier 2: persistent cache. A hit skips the fan-out and recomputes
	// from the stored raw rates. Store errors degrade to a live fetch.
	if s.persistent != nil {
		entry, err := s.persistent.Get(ctx, from, to, amount, s.opts.PersistentTTL)
		switch {
		case err == nil:
			s.metrics.CacheHitsTotal.WithLabelValues("persistent").Inc()
			s.promote(key, entry)
			return s.respond(entry)
		case !errors.Is(err, domain.ErrCacheMiss):
			logrus.WithError(err).Warnf("Persistent cache read failed, fetching live; execID: %s", execID)
		}
	}

	entry, allUnsupported := s.fetchAll(ctx, from, to, amount, execID)

	// Last chance: one direct call to the designated primary provider,
	// bypassing the registry loop.
	if len(entry.ProviderRates) == 0 {
		s.fetchFallback(ctx, from, to, amount, &entry, execID)
	}

	if len(entry.ProviderRates) == 0 {
		if allUnsupported {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrUnsupportedPair, from, to)
		}
		return nil, fmt.Errorf("%w for %s/%s", domain.ErrNoRatesAvailable, from, to)
	}

	// Write-through both tiers. Persistence failures never fail the
	// request.
	s.memory.Set(key, entry)
	if s.persistent != nil {
		if err := s.persistent.Upsert(ctx, entry); err != nil {
			logrus.WithError(err).Warnf("Persistent cache write failed; execID: %s", execID)
		}
	}

	return s.respond(entry)
}

// promote re-inserts a persistent-tier hit into the memory tier, with
// the memory TTL capped by the entry's remaining persistent lifetime so
// promotion never extends how long the entry can be served.
func (s *Service) promote(key string, entry domain.CacheEntry) {
	remaining := s.opts.PersistentTTL - time.Since(entry.FetchedAt)
	if remaining <= 0 {
		return
	}
	s.memory.SetWithTTL(key, entry, remaining)
}

// respond turns a cache entry into the final response. An entry whose
// providers have all since been disabled in the registry builds zero
// results; that is reported as no rates, never as an empty success.
func (s *Service) respond(entry domain.CacheEntry) ([]domain.ComparisonResult, error) {
	results := s.buildResults(entry)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for %s/%s", domain.ErrNoRatesAvailable, entry.FromCurrency, entry.ToCurrency)
	}
	s.metrics.ComparisonsTotal.Inc()
	return results, nil
}

// fetchAll fans out to every enabled provider concurrently. Each call has
// its own timeout and error boundary; the overall deadline stops the
// gather loop, using whatever already completed.
func (s *Service) fetchAll(ctx context.Context, from, to string, amount decimal.Decimal, execID string) (domain.CacheEntry, bool) {
	providers := s.registry.Active()
	req := domain.QuoteRequest{FromCurrency: from, ToCurrency: to, Amount: amount}

	overallCtx, cancel := context.WithTimeout(ctx, s.opts.OverallTimeout)
	defer cancel()

	results := make(chan fetchResult, len(providers))
	launched := 0
	for _, p := range providers {
		if err := s.quota.Allow(p.Code, p.Quota); err != nil {
			s.metrics.ProviderFetchTotal.WithLabelValues(p.Code, "quota_exceeded").Inc()
			logrus.Warnf("Provider %s skipped, quota exceeded; execID: %s", p.Code, execID)
			continue
		}
		adapter, ok := s.registry.Adapter(p.Handler)
		if !ok {
			logrus.Errorf("Provider %s has unknown handler %q, skipping; execID: %s", p.Code, p.Handler, execID)
			continue
		}

		launched++
		go func(p domain.Provider, adapter adapters.QuoteAdapter) {
			results <- s.fetchOne(overallCtx, p, adapter, req)
		}(p, adapter)
	}

	entry := domain.CacheEntry{
		FromCurrency:       from,
		ToCurrency:         to,
		Amount:             amount,
		ProviderRates:      make(map[string]decimal.Decimal, launched),
		ProviderDeliveries: make(map[string]string, launched),
		FetchedAt:          time.Now(),
	}

	failures, unsupported := 0, 0
	for i := 0; i < launched; i++ {
		select {
		case res := <-results:
			if res.err != nil {
				failures++
				if domain.IsUnsupportedPair(res.err) {
					unsupported++
				}
				logrus.WithError(res.err).Warnf("Provider %s excluded from comparison; execID: %s", res.provider.Code, execID)
				continue
			}
			entry.ProviderRates[res.quote.ProviderCode] = res.quote.Rate
			if res.quote.DeliveryEstimate != "" {
				entry.ProviderDeliveries[res.quote.ProviderCode] = res.quote.DeliveryEstimate
			}
		case <-overallCtx.Done():
			logrus.Warnf("Comparison deadline reached with %d/%d providers pending; execID: %s", launched-i, launched, execID)
			return entry, false
		}
	}

	allUnsupported := launched > 0 && failures == launched && unsupported == failures
	return entry, allUnsupported
}

// fetchOne runs a single adapter inside its own timeout and error
// boundary. A panic or failure here must never take down siblings.
func (s *Service) fetchOne(ctx context.Context, p domain.Provider, adapter adapters.QuoteAdapter, req domain.QuoteRequest) (res fetchResult) {
	res.provider = p

	defer func() {
		if r := recover(); r != nil {
			res.err = &domain.ProviderError{Provider: p.Code, Err: fmt.Errorf("adapter panic: %v", r)}
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, s.opts.ProviderTimeout)
	defer cancel()

	start := time.Now()
	quote, err := adapter.FetchQuote(callCtx, req)
	s.metrics.ProviderFetchDuration.WithLabelValues(p.Code).Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.ProviderFetchTotal.WithLabelValues(p.Code, outcomeLabel(err)).Inc()
		res.err = err
		return res
	}

	s.metrics.ProviderFetchTotal.WithLabelValues(p.Code, "ok").Inc()
	s.quota.Record(p.Code)
	s.logReportedTargetDrift(p.Code, quote)
	res.quote = quote
	return res
}

// fetchFallback makes one direct call to the designated primary provider.
// It gets a fresh timeout because the overall deadline may already be
// spent.
func (s *Service) fetchFallback(ctx context.Context, from, to string, amount decimal.Decimal, entry *domain.CacheEntry, execID string) {
	if s.opts.FallbackProvider == "" {
		return
	}
	p, err := s.registry.Get(s.opts.FallbackProvider)
	if err != nil {
		logrus.Errorf("Fallback provider %q not registered; execID: %s", s.opts.FallbackProvider, execID)
		return
	}
	adapter, ok := s.registry.Adapter(p.Handler)
	if !ok {
		logrus.Errorf("Fallback provider %q has unknown handler %q; execID: %s", p.Code, p.Handler, execID)
		return
	}

	s.metrics.FallbackTotal.Inc()
	logrus.Infof("All providers failed, trying direct fallback via %s; execID: %s", p.Code, execID)

	res := s.fetchOne(ctx, p, adapter, domain.QuoteRequest{FromCurrency: from, ToCurrency: to, Amount: amount})
	if res.err != nil {
		logrus.WithError(res.err).Warnf("Fallback provider %s failed too; execID: %s", p.Code, execID)
		return
	}
	entry.ProviderRates[res.quote.ProviderCode] = res.quote.Rate
	if res.quote.DeliveryEstimate != "" {
		entry.ProviderDeliveries[res.quote.ProviderCode] = res.quote.DeliveryEstimate
	}
}

// buildResults derives sorted comparison results from a raw-rate cache
// entry. Deterministic given the entry and registry state, so cached and
// fresh paths produce identical responses.
func (s *Service) buildResults(entry domain.CacheEntry) []domain.ComparisonResult {
	results := make([]domain.ComparisonResult, 0, len(entry.ProviderRates)+4)

	// Fetched providers first, in registry insertion order so sort ties
	// stay deterministic.
	for _, p := range s.registry.Active() {
		rate, ok := entry.ProviderRates[p.Code]
		if !ok {
			continue
		}
		results = append(results, s.buildResult(p, rate, entry))
	}

	// Static providers are priced off the best fetched rate as the
	// mid-market baseline, discounted by their configured margin.
	if baseline, ok := bestRate(entry.ProviderRates); ok {
		for _, p := range s.registry.ActiveStatic() {
			derived := baseline.Mul(decimal.NewFromInt(1).Sub(p.Margin))
			results = append(results, s.buildResult(p, derived, entry))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AmountReceived.GreaterThan(results[j].AmountReceived)
	})
	return results
}

func (s *Service) buildResult(p domain.Provider, rate decimal.Decimal, entry domain.CacheEntry) domain.ComparisonResult {
	b := Calculate(p.Fee, p.Convention, p.Margin, rate, entry.Amount)

	raw := entry.ProviderDeliveries[p.Code]
	var tt domain.TransferTimeEstimate
	if raw == "" && (p.TransferTime.MinHours > 0 || p.TransferTime.MaxHours > 0) {
		tt = estimateFromHours(p.TransferTime.MinHours, p.TransferTime.MaxHours)
	} else {
		// FetchedAt anchors ISO-timestamp math so rebuilding from cache
		// yields the same window the fresh fetch did.
		tt = NormalizeDeliveryTime(raw, entry.FromCurrency, entry.ToCurrency, entry.FetchedAt)
	}

	return domain.ComparisonResult{
		ProviderCode:   p.Code,
		ProviderName:   p.Name,
		EffectiveRate:  b.EffectiveRate,
		TransferFee:    b.TransferFee,
		MarginCost:     b.MarginCost,
		TotalCost:      b.TotalCost,
		AmountReceived: b.AmountReceived,
		TransferTime:   tt,
		Methods:        p.Methods,
	}
}

// ClearCache drops one pair from both tiers, or everything when the pair
// is empty. Persistent failures are reported but memory is always cleared.
func (s *Service) ClearCache(ctx context.Context, fromCurrency, toCurrency string) error {
	from := strings.ToUpper(strings.TrimSpace(fromCurrency))
	to := strings.ToUpper(strings.TrimSpace(toCurrency))

	if from == "" || to == "" {
		s.memory.Clear()
		if s.persistent != nil {
			return s.persistent.DeleteAll(ctx)
		}
		return nil
	}

	// Memory keys embed the amount, so a pair-level clear has to drop the
	// whole tier; entries repopulate on the next request.
	s.memory.Clear()
	if s.persistent != nil {
		return s.persistent.DeletePair(ctx, from, to)
	}
	return nil
}

func (s *Service) logReportedTargetDrift(code string, quote domain.RateQuote) {
	if quote.AmountReceived == nil || quote.Rate.IsZero() {
		return
	}
	computed := quote.Amount.Mul(quote.Rate)
	if computed.IsZero() {
		return
	}
	drift := quote.AmountReceived.Sub(computed).Abs().Div(computed)
	if drift.GreaterThan(decimal.NewFromFloat(0.02)) {
		logrus.Debugf("Provider %s reported target amount %s deviates from rate-derived %s",
			code, quote.AmountReceived.String(), computed.Round(2).String())
	}
}

func outcomeLabel(err error) string {
	var parseErr *domain.ParseError
	switch {
	case domain.IsUnsupportedPair(err):
		return "unsupported_pair"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &parseErr):
		return "parse_failure"
	default:
		return "error"
	}
}

func bestRate(rates map[string]decimal.Decimal) (decimal.Decimal, bool) {
	best := decimal.Zero
	found := false
	for _, r := range rates {
		if !found || r.GreaterThan(best) {
			best = r
			found = true
		}
	}
	return best, found
}

func cacheKey(from, to string, amount decimal.Decimal) string {
	return from + ":" + to + ":" + amount.String()
}
