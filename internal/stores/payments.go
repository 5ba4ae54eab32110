package stores

import (
	"context"
	"time"

	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/observability"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// PaymentsStore serves the recurring payment list.
type PaymentsStore struct {
	api   *backend.Client
	group *fetchGroup
}

// NewPaymentsStore builds the store.
func NewPaymentsStore(api *backend.Client, ttl time.Duration, metrics *observability.Metrics) *PaymentsStore {
	return &PaymentsStore{api: api, group: newFetchGroup("payments", ttl, metrics)}
}

// List returns the payments for the session.
func (s *PaymentsStore) List(ctx context.Context, sid string, force bool) ([]domain.Payment, error) {
	val, err := s.group.get(ctx, sid, force, func(ctx context.Context) (any, error) {
		return s.api.Payments(backend.WithSession(ctx, sid))
	})
	if err != nil {
		return nil, err
	}
	return val.([]domain.Payment), nil
}

// Create adds a payment and invalidates the cached list.
func (s *PaymentsStore) Create(ctx context.Context, sid string, payload backend.PaymentPayload) (*domain.Payment, error) {
	created, err := s.api.CreatePayment(backend.WithSession(ctx, sid), payload)
	if err != nil {
		return nil, err
	}
	s.group.invalidate(sid)
	return created, nil
}

// Update modifies a payment and invalidates the cached list.
func (s *PaymentsStore) Update(ctx context.Context, sid string, id int64, payload backend.PaymentPayload) (*domain.Payment, error) {
	updated, err := s.api.UpdatePayment(backend.WithSession(ctx, sid), id, payload)
	if err != nil {
		return nil, err
	}
	s.group.invalidate(sid)
	return updated, nil
}

// Delete removes a payment and invalidates the cached list.
func (s *PaymentsStore) Delete(ctx context.Context, sid string, id int64) error {
	if err := s.api.DeletePayment(backend.WithSession(ctx, sid), id); err != nil {
		return err
	}
	s.group.invalidate(sid)
	return nil
}

// Toggle flips the paid flag of one payment.
func (s *PaymentsStore) Toggle(ctx context.Context, sid string, id int64) (*domain.Payment, error) {
	payments, err := s.List(ctx, sid, false)
	if err != nil {
		return nil, err
	}
	var current *domain.Payment
	for i := range payments {
		if payments[i].ID == id {
			current = &payments[i]
			break
		}
	}
	if current == nil {
		return nil, apperrors.NewNotFound("payment", map[string]any{"id": id})
	}
	paid := !current.Paid
	return s.Update(ctx, sid, id, backend.PaymentPayload{Paid: &paid})
}
