package stores

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/observability"
)

// ExchangeRateStore caches the USD to UZS rate. Unlike the other stores the
// rate is global, not per session: whichever session fetches first warms the
// cache for everyone, and a fetch within the TTL is answered from cache.
type ExchangeRateStore struct {
	api   *backend.Client
	group *fetchGroup

	mu   sync.RWMutex
	last domain.ExchangeRate
}

const rateKey = "usd_to_uzs"

// NewExchangeRateStore builds the store. ttl is typically one hour.
func NewExchangeRateStore(api *backend.Client, ttl time.Duration, metrics *observability.Metrics) *ExchangeRateStore {
	return &ExchangeRateStore{api: api, group: newFetchGroup("exchange_rate", ttl, metrics)}
}

// Rate returns the cached rate, fetching through the given session when
// stale or forced.
func (s *ExchangeRateStore) Rate(ctx context.Context, sid string, force bool) (domain.ExchangeRate, error) {
	val, err := s.group.get(ctx, rateKey, force, func(ctx context.Context) (any, error) {
		rate, err := s.api.USDToUZS(backend.WithSession(ctx, sid))
		if err != nil {
			return nil, err
		}
		fetched := domain.ExchangeRate{USDToUZS: rate, FetchedAt: time.Now().Unix()}
		s.mu.Lock()
		s.last = fetched
		s.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	return val.(domain.ExchangeRate), nil
}

// Last returns the most recently fetched rate even if the cache entry has
// expired, so dashboards can show a stale value while a refresh runs.
func (s *ExchangeRateStore) Last() (domain.ExchangeRate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.last.FetchedAt != 0
}
