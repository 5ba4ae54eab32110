package stores

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/observability"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// ClientsStore serves the CRM customer list. Mutations refetch the full
// list rather than patching it, mirroring how the dashboard keeps the
// pipeline counters consistent.
type ClientsStore struct {
	api   *backend.Client
	group *fetchGroup
}

// NewClientsStore builds the store. ttl bounds how long a listed dashboard
// is served without refetching.
func NewClientsStore(api *backend.Client, ttl time.Duration, metrics *observability.Metrics) *ClientsStore {
	return &ClientsStore{api: api, group: newFetchGroup("clients", ttl, metrics)}
}

// Dashboard returns the CRM dashboard for the session.
func (s *ClientsStore) Dashboard(ctx context.Context, sid string, force bool) (*domain.CRMDashboard, error) {
	val, err := s.group.get(ctx, sid, force, func(ctx context.Context) (any, error) {
		return s.api.CRMDashboard(backend.WithSession(ctx, sid))
	})
	if err != nil {
		return nil, err
	}
	return val.(*domain.CRMDashboard), nil
}

// Add creates a customer and refetches the dashboard.
func (s *ClientsStore) Add(ctx context.Context, sid string, payload backend.ClientPayload) (*domain.Client, error) {
	if err := validateClientPayload(&payload); err != nil {
		return nil, err
	}
	created, err := s.api.CreateCustomer(backend.WithSession(ctx, sid), payload)
	if err != nil {
		return nil, err
	}
	s.group.invalidate(sid)
	return created, nil
}

// Update modifies a customer and refetches the dashboard.
func (s *ClientsStore) Update(ctx context.Context, sid string, id int64, payload backend.ClientPayload) (*domain.Client, error) {
	updated, err := s.api.UpdateCustomer(backend.WithSession(ctx, sid), id, payload)
	if err != nil {
		return nil, err
	}
	s.group.invalidate(sid)
	return updated, nil
}

// Delete removes a customer and refetches the dashboard.
func (s *ClientsStore) Delete(ctx context.Context, sid string, id int64) error {
	if err := s.api.DeleteCustomer(backend.WithSession(ctx, sid), id); err != nil {
		return err
	}
	s.group.invalidate(sid)
	return nil
}

// validateClientPayload enforces the required fields and derives a username
// from the full name when none was supplied.
func validateClientPayload(p *backend.ClientPayload) error {
	if p.FullName == "" {
		return apperrors.NewValidationError("full name is required", nil)
	}
	if p.Platform == "" {
		return apperrors.NewValidationError("platform is required", nil)
	}
	if p.Username == "" {
		p.Username = strings.ToLower(strings.Join(strings.Fields(p.FullName), "."))
	}
	return nil
}
