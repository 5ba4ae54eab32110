package stores

import (
	"context"
	"time"

	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/observability"
)

// ProjectsStore serves the WordPress project list.
type ProjectsStore struct {
	api   *backend.Client
	group *fetchGroup
}

// NewProjectsStore builds the store.
func NewProjectsStore(api *backend.Client, ttl time.Duration, metrics *observability.Metrics) *ProjectsStore {
	return &ProjectsStore{api: api, group: newFetchGroup("projects", ttl, metrics)}
}

// List returns the projects for the session.
func (s *ProjectsStore) List(ctx context.Context, sid string, force bool) ([]domain.Project, error) {
	val, err := s.group.get(ctx, sid, force, func(ctx context.Context) (any, error) {
		return s.api.Projects(backend.WithSession(ctx, sid))
	})
	if err != nil {
		return nil, err
	}
	return val.([]domain.Project), nil
}

// Create adds a project and invalidates the cached list.
func (s *ProjectsStore) Create(ctx context.Context, sid string, payload backend.ProjectPayload) (*domain.Project, error) {
	created, err := s.api.CreateProject(backend.WithSession(ctx, sid), payload)
	if err != nil {
		return nil, err
	}
	s.group.invalidate(sid)
	return created, nil
}

// Update modifies a project and invalidates the cached list.
func (s *ProjectsStore) Update(ctx context.Context, sid string, id int64, payload backend.ProjectPayload) (*domain.Project, error) {
	updated, err := s.api.UpdateProject(backend.WithSession(ctx, sid), id, payload)
	if err != nil {
		return nil, err
	}
	s.group.invalidate(sid)
	return updated, nil
}

// Delete removes a project and invalidates the cached list.
func (s *ProjectsStore) Delete(ctx context.Context, sid string, id int64) error {
	if err := s.api.DeleteProject(backend.WithSession(ctx, sid), id); err != nil {
		return err
	}
	s.group.invalidate(sid)
	return nil
}
