package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/spec-kit/admin-console/internal/domain"
)

// AuthResult is the upstream response to login and register.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type,omitempty"`
	User        *domain.User `json:"user,omitempty"`
}

// RegisterPayload creates a new account.
type RegisterPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	CompanyCode string `json:"company_code"`
	TelegramID  string `json:"telegram_id,omitempty"`
	Role        string `json:"role"`
}

// Login performs the form-encoded password grant against POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", email)
	form.Set("password", password)
	form.Set("scope", "")
	form.Set("client_id", "")
	form.Set("client_secret", "")

	var result AuthResult
	if err := c.doForm(ctx, "auth.login", "/auth/login", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account via POST /auth/register.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (*AuthResult, error) {
	var result AuthResult
	if err := c.doJSON(ctx, "auth.register", http.MethodPost, "/auth/register", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me fetches the authenticated profile, including the permission tree.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, "auth.me", http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileForSession implements session.ProfileFetcher.
func (c *Client) ProfileForSession(ctx context.Context, sid string) (*domain.User, error) {
	return c.Me(WithSession(ctx, sid))
}

// VerifyEmail confirms the one-time code sent to a new account.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	payload := map[string]string{"email": email, "code": code}
	return c.doJSON(ctx, "auth.verify_email", http.MethodPost, "/auth/verify-email", payload, nil)
}

// ResendVerification requests a fresh verification code.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.doJSON(ctx, "auth.resend_verification", http.MethodPost, "/auth/resend-verification", payload, nil)
}
