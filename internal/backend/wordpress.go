package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spec-kit/admin-console/internal/domain"
)

// ProjectPayload is the writable subset of a WordPress project.
type ProjectPayload struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// Projects lists tracked WordPress projects.
func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.doJSON(ctx, "wordpress.projects", http.MethodGet, "/wordpress/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject adds a project.
func (c *Client) CreateProject(ctx context.Context, payload ProjectPayload) (*domain.Project, error) {
	var created domain.Project
	if err := c.doJSON(ctx, "wordpress.project_create", http.MethodPost, "/wordpress/projects", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProject updates a project.
func (c *Client) UpdateProject(ctx context.Context, id int64, payload ProjectPayload) (*domain.Project, error) {
	var updated domain.Project
	path := fmt.Sprintf("/wordpress/projects/%d", id)
	if err := c.doJSON(ctx, "wordpress.project_update", http.MethodPut, path, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/wordpress/projects/%d", id)
	return c.doJSON(ctx, "wordpress.project_delete", http.MethodDelete, path, nil, nil)
}
