package dto

import "github.com/spec-kit/admin-console/internal/backend"

// ClientRequest is the CRM customer form.
type ClientRequest struct {
	FullName      string `json:"full_name"`
	Platform      string `json:"platform"`
	Username      string `json:"username"`
	PhoneNumber   string `json:"phone_number"`
	Status        string `json:"status"`
	AssistantName string `json:"assistant_name"`
	Notes         string `json:"notes"`
}

// Payload converts the form to the upstream shape.
func (r ClientRequest) Payload() backend.ClientPayload {
	return backend.ClientPayload{
		FullName:      r.FullName,
		Platform:      r.Platform,
		Username:      r.Username,
		PhoneNumber:   r.PhoneNumber,
		Status:        r.Status,
		AssistantName: r.AssistantName,
		Notes:         r.Notes,
	}
}

// UserRequest is the managed-user form.
type UserRequest struct {
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Surname       string   `json:"surname"`
	Role          string   `json:"role"`
	CompanyCode   string   `json:"company_code"`
	TelegramID    string   `json:"telegram_id"`
	DefaultSalary *float64 `json:"default_salary"`
	IsActive      *bool    `json:"is_active"`
}

// Payload converts the form to the upstream shape.
func (r UserRequest) Payload() backend.UserPayload {
	return backend.UserPayload{
		Email:         r.Email,
		Name:          r.Name,
		Surname:       r.Surname,
		Role:          r.Role,
		CompanyCode:   r.CompanyCode,
		TelegramID:    r.TelegramID,
		DefaultSalary: r.DefaultSalary,
		IsActive:      r.IsActive,
	}
}

// PaymentRequest is the payment form. Status is "Paid" or "Pending".
type PaymentRequest struct {
	ProjectName     string   `json:"project_name"`
	NextPaymentDate string   `json:"next_payment_date"`
	Amount          *float64 `json:"amount"`
	Status          string   `json:"status"`
}

// Payload converts the form to the upstream shape, collapsing the status
// label to the backend's boolean.
func (r PaymentRequest) Payload() backend.PaymentPayload {
	p := backend.PaymentPayload{
		Project: r.ProjectName,
		Date:    r.NextPaymentDate,
		Amount:  r.Amount,
	}
	if r.Status != "" {
		paid := r.Status == "Paid"
		p.Paid = &paid
	}
	return p
}

// ProjectRequest is the WordPress project form.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	IsActive    *bool  `json:"is_active"`
}

// Payload converts the form to the upstream shape.
func (r ProjectRequest) Payload() backend.ProjectPayload {
	return backend.ProjectPayload{
		Name:        r.Name,
		Description: r.Description,
		URL:         r.URL,
		IsActive:    r.IsActive,
	}
}
