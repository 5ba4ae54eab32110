package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/authz"
	"github.com/spec-kit/admin-console/internal/config"
	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/session"
)

type staticSessions struct {
	snap session.Snapshot
}

func (s *staticSessions) Get(_ context.Context, sid string) session.Snapshot {
	snap := s.snap
	snap.SID = sid
	return snap
}

func (s *staticSessions) FetchUser(_ context.Context, _ string) (*domain.User, error) {
	return s.snap.User, nil
}

// newGateApp wires the full middleware chain in front of one gated route,
// the way the server assembles it.
func newGateApp(sessions authz.SessionSource) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, config.SessionConfig{CookieName: "sid", TTLHours: 1}, 0)

	gate := authz.NewGate(sessions, "/login")
	app.Get("/finance", gate.Require("finance_list"), func(c *fiber.Ctx) error {
		user, _ := authz.UserFromContext(c)
		return c.JSON(fiber.Map{"user": user.ID})
	})
	return app
}

func TestRequireRedirectsBrowsersToLogin(t *testing.T) {
	app := newGateApp(&staticSessions{})

	req := httptest.NewRequest(http.MethodGet, "/finance", nil)
	req.Header.Set(fiber.HeaderAccept, "text/html")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
}

func TestRequireReturnsJSONErrorToAPIClients(t *testing.T) {
	app := newGateApp(&staticSessions{})

	req := httptest.NewRequest(http.MethodGet, "/finance", nil)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "UNAUTHENTICATED", body.Error.Code)
}

func TestRequireDenialNamesMissingPermission(t *testing.T) {
	app := newGateApp(&staticSessions{snap: session.Snapshot{
		Token: "tok",
		User: &domain.User{
			ID:          "u1",
			Name:        "Aziza",
			Surname:     "Karimova",
			Role:        "Assistant",
			Permissions: domain.PermissionMap{"crm": true},
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/finance", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
		Required string `json:"required"`
		Back     string `json:"back"`
		User     struct {
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "FORBIDDEN", body.Error.Code)
	require.Equal(t, "finance_list", body.Required)
	require.Equal(t, "/", body.Back)
	require.Equal(t, "Aziza Karimova", body.User.Name)
	require.Equal(t, "Assistant", body.User.Role)
}

func TestRequireAdmitsPermittedSession(t *testing.T) {
	app := newGateApp(&staticSessions{snap: session.Snapshot{
		Token: "tok",
		User: &domain.User{
			ID:          "u1",
			Permissions: domain.PermissionMap{"finance_list": true},
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/finance", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"user":"u1"}`, string(raw))
}
