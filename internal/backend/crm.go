package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spec-kit/admin-console/internal/domain"
)

// ClientPayload is the writable subset of a CRM customer.
type ClientPayload struct {
	FullName      string `json:"full_name,omitempty"`
	Platform      string `json:"platform,omitempty"`
	Username      string `json:"username,omitempty"`
	PhoneNumber   string `json:"phone_number,omitempty"`
	Status        string `json:"status,omitempty"`
	AssistantName string `json:"assistant_name,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// CRMDashboard fetches the customer list with pipeline statistics.
func (c *Client) CRMDashboard(ctx context.Context) (*domain.CRMDashboard, error) {
	var dash domain.CRMDashboard
	if err := c.doJSON(ctx, "crm.dashboard", http.MethodGet, "/crm/dashboard", nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// SalesStats fetches the aggregated pipeline counters.
func (c *Client) SalesStats(ctx context.Context) (*domain.SalesStats, error) {
	var stats domain.SalesStats
	if err := c.doJSON(ctx, "crm.stats", http.MethodGet, "/crm/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateCustomer adds a CRM customer.
func (c *Client) CreateCustomer(ctx context.Context, payload ClientPayload) (*domain.Client, error) {
	var created domain.Client
	if err := c.doJSON(ctx, "crm.customer_create", http.MethodPost, "/crm/customers", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCustomer updates fields of an existing customer.
func (c *Client) UpdateCustomer(ctx context.Context, id int64, payload ClientPayload) (*domain.Client, error) {
	var updated domain.Client
	path := fmt.Sprintf("/crm/customers/%d", id)
	if err := c.doJSON(ctx, "crm.customer_update", http.MethodPut, path, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCustomer removes a customer.
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/crm/customers/%d", id)
	return c.doJSON(ctx, "crm.customer_delete", http.MethodDelete, path, nil, nil)
}
