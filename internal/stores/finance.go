package stores

import (
	"context"
	"time"

	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/observability"
)

// FinanceStore serves the balance snapshot.
type FinanceStore struct {
	api   *backend.Client
	group *fetchGroup
}

// NewFinanceStore builds the store.
func NewFinanceStore(api *backend.Client, ttl time.Duration, metrics *observability.Metrics) *FinanceStore {
	return &FinanceStore{api: api, group: newFetchGroup("finance", ttl, metrics)}
}

// Dashboard returns parsed balances for the session.
func (s *FinanceStore) Dashboard(ctx context.Context, sid string, force bool) (*domain.FinanceDashboard, error) {
	val, err := s.group.get(ctx, sid, force, func(ctx context.Context) (any, error) {
		return s.api.FinanceDashboard(backend.WithSession(ctx, sid))
	})
	if err != nil {
		return nil, err
	}
	return val.(*domain.FinanceDashboard), nil
}

// AdminStatsStore serves the CEO dashboard counters.
type AdminStatsStore struct {
	api   *backend.Client
	group *fetchGroup
}

// NewAdminStatsStore builds the store.
func NewAdminStatsStore(api *backend.Client, ttl time.Duration, metrics *observability.Metrics) *AdminStatsStore {
	return &AdminStatsStore{api: api, group: newFetchGroup("admin_stats", ttl, metrics)}
}

// Dashboard returns the statistics and user list for the session.
func (s *AdminStatsStore) Dashboard(ctx context.Context, sid string, force bool) (*domain.AdminDashboard, error) {
	val, err := s.group.get(ctx, sid, force, func(ctx context.Context) (any, error) {
		return s.api.AdminDashboard(backend.WithSession(ctx, sid))
	})
	if err != nil {
		return nil, err
	}
	return val.(*domain.AdminDashboard), nil
}

// Invalidate drops the cached dashboard, used after user mutations.
func (s *AdminStatsStore) Invalidate(sid string) {
	s.group.invalidate(sid)
}
