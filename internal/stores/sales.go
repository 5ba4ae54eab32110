package stores

import (
	"context"
	"time"

	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/observability"
)

// SalesStore serves the sales pipeline statistics with a short staleness
// window. Updates patch the cached rows in place so the table reflects an
// edit immediately without waiting out the stale window.
type SalesStore struct {
	api   *backend.Client
	group *fetchGroup
}

// NewSalesStore builds the store.
func NewSalesStore(api *backend.Client, ttl time.Duration, metrics *observability.Metrics) *SalesStore {
	return &SalesStore{api: api, group: newFetchGroup("sales", ttl, metrics)}
}

// Stats returns the pipeline counters and rows for the session.
func (s *SalesStore) Stats(ctx context.Context, sid string, force bool) (*domain.SalesStats, error) {
	val, err := s.group.get(ctx, sid, force, func(ctx context.Context) (any, error) {
		return s.api.SalesStats(backend.WithSession(ctx, sid))
	})
	if err != nil {
		return nil, err
	}
	return val.(*domain.SalesStats), nil
}

// Add creates a sales record and invalidates the cached stats.
func (s *SalesStore) Add(ctx context.Context, sid string, payload backend.ClientPayload) (*domain.Client, error) {
	created, err := s.api.CreateSale(backend.WithSession(ctx, sid), payload)
	if err != nil {
		return nil, err
	}
	s.group.invalidate(sid)
	return created, nil
}

// Update modifies a sales record upstream and patches the cached row
// without refetching.
func (s *SalesStore) Update(ctx context.Context, sid string, id int64, payload backend.ClientPayload) (*domain.Client, error) {
	updated, err := s.api.UpdateSale(backend.WithSession(ctx, sid), id, payload)
	if err != nil {
		return nil, err
	}
	s.patchCached(sid, id, updated)
	return updated, nil
}

// Delete removes a sales record and invalidates the cached stats.
func (s *SalesStore) Delete(ctx context.Context, sid string, id int64) error {
	if err := s.api.DeleteSale(backend.WithSession(ctx, sid), id); err != nil {
		return err
	}
	s.group.invalidate(sid)
	return nil
}

func (s *SalesStore) patchCached(sid string, id int64, updated *domain.Client) {
	val, ok := s.group.peek(sid)
	if !ok {
		return
	}
	stats, ok := val.(*domain.SalesStats)
	if !ok {
		return
	}
	patched := *stats
	patched.Sales = make([]domain.Client, len(stats.Sales))
	copy(patched.Sales, stats.Sales)
	for i := range patched.Sales {
		if patched.Sales[i].ID == id {
			patched.Sales[i] = *updated
		}
	}
	s.group.put(sid, &patched)
}
