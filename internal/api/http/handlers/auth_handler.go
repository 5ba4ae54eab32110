package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/api/dto"
	"github.com/spec-kit/admin-console/internal/authz"
	"github.com/spec-kit/admin-console/internal/backend"
	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/session"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// AuthHandler exposes the login, registration and session endpoints.
type AuthHandler struct {
	api        *backend.Client
	sessions   *session.Manager
	dispatcher events.Dispatcher
}

// NewAuthHandler constructs handler.
func NewAuthHandler(api *backend.Client, sessions *session.Manager, dispatcher events.Dispatcher) *AuthHandler {
	return &AuthHandler{api: api, sessions: sessions, dispatcher: dispatcher}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if msg := req.Validate(); msg != "" {
		return apperrors.NewValidationError(msg, nil)
	}

	result, err := h.api.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if result.AccessToken == "" {
		return apperrors.NewUnauthorized("login did not yield a token")
	}

	sid := authz.SessionID(c)
	if err := h.sessions.SetToken(c.UserContext(), sid, result.AccessToken); err != nil {
		return err
	}
	if result.User != nil {
		h.sessions.SetUser(sid, result.User)
	}

	_ = h.dispatcher.Publish(c.UserContext(), events.Event{
		Type:       events.EventSessionLogin,
		SessionID:  sid,
		UserEmail:  req.Email,
		OccurredAt: time.Now(),
	})

	return c.JSON(fiber.Map{"data": fiber.Map{"user": result.User}})
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if msg := req.Validate(); msg != "" {
		return apperrors.NewValidationError(msg, nil)
	}

	role := req.Role
	if role == "" {
		role = "Customer"
	}
	result, err := h.api.Register(c.UserContext(), backend.RegisterPayload{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Surname:     req.Surname,
		CompanyCode: req.CompanyCode,
		TelegramID:  req.TelegramID,
		Role:        role,
	})
	if err != nil {
		return err
	}

	// Some deployments return a token straight away; others require email
	// verification first.
	if result.AccessToken != "" {
		sid := authz.SessionID(c)
		if err := h.sessions.SetToken(c.UserContext(), sid, result.AccessToken); err != nil {
			return err
		}
		if result.User != nil {
			h.sessions.SetUser(sid, result.User)
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"user": result.User}})
}

// VerifyEmail handles POST /verify-email.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Code == "" {
		return apperrors.NewValidationError("email and code required", nil)
	}
	if err := h.api.VerifyEmail(c.UserContext(), req.Email, req.Code); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"verified": true}})
}

// ResendVerification handles POST /resend-verification.
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.ResendVerificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if err := h.api.ResendVerification(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"sent": true}})
}

// Logout handles POST /logout. Always succeeds: logging out a logged-out
// session is a no-op. The session manager announces the logout itself, so
// forced and explicit logouts surface the same event.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := authz.SessionID(c)
	if err := h.sessions.Logout(c.UserContext(), sid); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Session handles GET /api/session, reporting who is logged in. It fetches
// the profile when the token is present but the profile has not been
// loaded yet.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sid := authz.SessionID(c)
	snap := h.sessions.Get(c.UserContext(), sid)
	if !snap.Authenticated() {
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}

	user := snap.User
	if user == nil {
		fetched, err := h.sessions.FetchUser(c.UserContext(), sid)
		if err != nil {
			if apperrors.IsUnauthenticated(err) {
				return c.JSON(dto.SessionResponse{Authenticated: false})
			}
			return err
		}
		user = fetched
		snap = h.sessions.Get(c.UserContext(), sid)
	}

	resp := dto.SessionResponse{Authenticated: true, User: user, TokenStale: snap.Stale()}
	if !snap.ExpiresAt.IsZero() {
		resp.TokenExpires = &snap.ExpiresAt
	}
	return c.JSON(resp)
}
