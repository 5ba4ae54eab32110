package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spec-kit/admin-console/internal/domain"
)

// UserPayload is the writable subset of a managed user.
type UserPayload struct {
	Email         string   `json:"email,omitempty"`
	Name          string   `json:"name,omitempty"`
	Surname       string   `json:"surname,omitempty"`
	Role          string   `json:"role,omitempty"`
	CompanyCode   string   `json:"company_code,omitempty"`
	TelegramID    string   `json:"telegram_id,omitempty"`
	DefaultSalary *float64 `json:"default_salary,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

// PaymentPayload is the writable subset of a payment.
type PaymentPayload struct {
	Project string   `json:"project,omitempty"`
	Date    string   `json:"date,omitempty"`
	Amount  *float64 `json:"summ,omitempty"`
	Paid    *bool    `json:"payment,omitempty"`
}

type paymentsResponse struct {
	Payments []domain.Payment `json:"payments"`
}

// AdminDashboard fetches the CEO statistics and user list.
func (c *Client) AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error) {
	var dash domain.AdminDashboard
	if err := c.doJSON(ctx, "ceo.dashboard", http.MethodGet, "/ceo/dashboard", nil, &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// CreateUser adds a managed user.
func (c *Client) CreateUser(ctx context.Context, payload UserPayload) (*domain.User, error) {
	var created domain.User
	if err := c.doJSON(ctx, "ceo.user_create", http.MethodPost, "/ceo/users", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateUser updates a managed user.
func (c *Client) UpdateUser(ctx context.Context, id string, payload UserPayload) (*domain.User, error) {
	var updated domain.User
	if err := c.doJSON(ctx, "ceo.user_update", http.MethodPut, "/ceo/users/"+id, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser removes a managed user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.doJSON(ctx, "ceo.user_delete", http.MethodDelete, "/ceo/users/"+id, nil, nil)
}

// UserPermissions fetches the named grant rows for one user.
func (c *Client) UserPermissions(ctx context.Context, id string) ([]domain.UserPermission, error) {
	var perms []domain.UserPermission
	if err := c.doJSON(ctx, "ceo.permissions_get", http.MethodGet, "/ceo/users/"+id+"/permissions", nil, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// UpdateUserPermissions replaces the grant rows for one user.
func (c *Client) UpdateUserPermissions(ctx context.Context, id string, perms []domain.UserPermission) ([]domain.UserPermission, error) {
	var updated []domain.UserPermission
	if err := c.doJSON(ctx, "ceo.permissions_put", http.MethodPut, "/ceo/users/"+id+"/permissions", perms, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Payments lists all tracked payments.
func (c *Client) Payments(ctx context.Context) ([]domain.Payment, error) {
	var resp paymentsResponse
	if err := c.doJSON(ctx, "ceo.payments", http.MethodGet, "/ceo/payments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Payments, nil
}

// CreatePayment adds a payment.
func (c *Client) CreatePayment(ctx context.Context, payload PaymentPayload) (*domain.Payment, error) {
	var created domain.Payment
	if err := c.doJSON(ctx, "ceo.payment_create", http.MethodPost, "/ceo/payments", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePayment updates a payment.
func (c *Client) UpdatePayment(ctx context.Context, id int64, payload PaymentPayload) (*domain.Payment, error) {
	var updated domain.Payment
	path := fmt.Sprintf("/ceo/payments/%d", id)
	if err := c.doJSON(ctx, "ceo.payment_update", http.MethodPut, path, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePayment removes a payment.
func (c *Client) DeletePayment(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/ceo/payments/%d", id)
	return c.doJSON(ctx, "ceo.payment_delete", http.MethodDelete, path, nil, nil)
}

// CreateSale adds a sales record.
func (c *Client) CreateSale(ctx context.Context, payload ClientPayload) (*domain.Client, error) {
	var created domain.Client
	if err := c.doJSON(ctx, "ceo.sale_create", http.MethodPost, "/ceo/sales", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSale updates a sales record.
func (c *Client) UpdateSale(ctx context.Context, id int64, payload ClientPayload) (*domain.Client, error) {
	var updated domain.Client
	path := fmt.Sprintf("/ceo/sales/%d", id)
	if err := c.doJSON(ctx, "ceo.sale_update", http.MethodPut, path, payload, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSale removes a sales record.
func (c *Client) DeleteSale(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/ceo/sales/%d", id)
	return c.doJSON(ctx, "ceo.sale_delete", http.MethodDelete, path, nil, nil)
}
