package registry

import (
	"context"
	"sync"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/adapters"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/sirupsen/logrus"
)

// Service holds the active provider configurations. It is constructed once
// and passed by reference to the orchestrator and HTTP layer; there is no
// package-level state. Initialize seeds guaranteed defaults and overlays
// persisted records, so the registry is never empty even with the store
// unreachable.
type Service struct {
	mu          sync.RWMutex
	providers   map[string]domain.Provider
	order       []string // insertion order, used for sort tie-breaking
	adapterSet  map[string]adapters.QuoteAdapter
	repo        adapters.ProviderRepository
	initialized bool
}

func NewService(repo adapters.ProviderRepository, adapterSet map[string]adapters.QuoteAdapter) *Service {
	return &Service{
		providers:  make(map[string]domain.Provider, 16),
		adapterSet: adapterSet,
		repo:       repo,
	}
}

// Initialize loads defaults and overlays persisted provider records keyed
// by code, last write wins. Safe to call repeatedly: a re-run rebuilds the
// map and never duplicates providers. Store read failures are logged and
// swallowed; the defaults remain authoritative.
func (s *Service) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.providers = make(map[string]domain.Provider, 16)
	s.order = s.order[:0]

	for _, p := range Defaults() {
		s.put(p)
	}

	if s.repo != nil {
		persisted, err := s.repo.GetAll(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Failed to load persisted providers, using defaults only")
		} else {
			for _, p := range persisted {
				s.put(p)
			}
		}
	}

	s.initialized = true
	logrus.Infof("Provider registry initialized with %d providers", len(s.providers))
}

// put overlays one provider, preserving the original insertion position
// for already-known codes. Caller must hold the write lock.
func (s *Service) put(p domain.Provider) {
	if _, known := s.providers[p.Code]; !known {
		s.order = append(s.order, p.Code)
	}
	s.providers[p.Code] = p
}

func (s *Service) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Active returns providers that are enabled for live API fetching, in
// insertion order.
func (s *Service) Active() []domain.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Provider, 0, len(s.order))
	for _, code := range s.order {
		if p := s.providers[code]; p.APIEnabled && p.Active {
			out = append(out, p)
		}
	}
	return out
}

// ActiveStatic returns active providers without a live API; they are
// priced off the mid-market baseline instead of fetched.
func (s *Service) ActiveStatic() []domain.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Provider, 0, len(s.order))
	for _, code := range s.order {
		if p := s.providers[code]; !p.APIEnabled && p.Active {
			out = append(out, p)
		}
	}
	return out
}

// All returns every registered provider in insertion order.
func (s *Service) All() []domain.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Provider, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, s.providers[code])
	}
	return out
}

func (s *Service) Get(code string) (domain.Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.providers[code]
	if !ok {
		return domain.Provider{}, domain.ErrProviderNotFound
	}
	return p, nil
}

// Adapter resolves a provider's handler tag to its quote adapter. The set
// is fixed at construction; unknown tags mean a misconfigured provider.
func (s *Service) Adapter(handler string) (adapters.QuoteAdapter, bool) {
	a, ok := s.adapterSet[handler]
	return a, ok
}
