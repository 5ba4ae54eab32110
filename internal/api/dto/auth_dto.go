package dto

import (
	"regexp"
	"time"

	"github.com/spec-kit/admin-console/internal/domain"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields and email shape.
func (r LoginRequest) Validate() string {
	if r.Email == "" {
		return "email is required"
	}
	if r.Password == "" {
		return "password is required"
	}
	if !emailPattern.MatchString(r.Email) {
		return "email is invalid"
	}
	return ""
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Password    string `json:"password"`
	Confirm     string `json:"confirm"`
	CompanyCode string `json:"company_code"`
	TelegramID  string `json:"telegram_id"`
	Role        string `json:"role"`
}

// Validate mirrors the registration form rules.
func (r RegisterRequest) Validate() string {
	if r.Email == "" {
		return "email is required"
	}
	if r.Name == "" {
		return "name is required"
	}
	if r.Surname == "" {
		return "surname is required"
	}
	if r.Password == "" {
		return "password is required"
	}
	if len(r.Password) < 6 {
		return "password must be at least 6 characters"
	}
	if r.Password != r.Confirm {
		return "passwords do not match"
	}
	if r.CompanyCode == "" {
		return "company code is required"
	}
	if !emailPattern.MatchString(r.Email) {
		return "email is invalid"
	}
	return ""
}

// VerifyEmailRequest payload for the one-time code.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResendVerificationRequest payload.
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// SessionResponse reports the current session state.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
	TokenExpires  *time.Time   `json:"token_expires,omitempty"`
	TokenStale    bool         `json:"token_stale,omitempty"`
}
