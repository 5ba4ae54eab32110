package authz

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/session"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// SessionSource is the slice of the session manager the gate needs.
type SessionSource interface {
	Get(ctx context.Context, sid string) session.Snapshot
	FetchUser(ctx context.Context, sid string) (*domain.User, error)
}

// Decision is the outcome of one gate check.
type Decision int

const (
	// DecisionUnauthenticated means no usable session: redirect to login.
	DecisionUnauthenticated Decision = iota
	// DecisionDenied means a valid session lacks the required permission.
	DecisionDenied
	// DecisionAllowed means the protected content may be served.
	DecisionAllowed
	// DecisionError means the profile could not be loaded for a reason
	// other than bad credentials; the caller may retry.
	DecisionError
)

// Gate decides per request whether to serve protected content, redirect an
// unauthenticated session to login, or return a denial.
type Gate struct {
	sessions  SessionSource
	loginPath string
}

// NewGate constructs a gate redirecting unauthenticated browsers to loginPath.
func NewGate(sessions SessionSource, loginPath string) *Gate {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &Gate{sessions: sessions, loginPath: loginPath}
}

// Check runs the gate state machine for one session: load the profile if
// absent, then evaluate the permission predicate. It never calls the
// backend when the session has no token.
func (g *Gate) Check(ctx context.Context, sid string, required ...string) (Decision, *domain.User, error) {
	snap := g.sessions.Get(ctx, sid)
	if !snap.Authenticated() {
		return DecisionUnauthenticated, nil, nil
	}

	user := snap.User
	if user == nil {
		fetched, err := g.sessions.FetchUser(ctx, sid)
		if err != nil {
			if apperrors.IsUnauthenticated(err) {
				return DecisionUnauthenticated, nil, nil
			}
			return DecisionError, nil, err
		}
		user = fetched
	}

	if Evaluate(user.Permissions, required...) {
		return DecisionAllowed, user, nil
	}
	return DecisionDenied, user, nil
}

// Require returns middleware that admits the request only when the session
// holds at least one of the required permission keys.
func (g *Gate) Require(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := SessionID(c)
		if sid == "" {
			return g.unauthenticated(c)
		}

		decision, user, err := g.Check(c.UserContext(), sid, required...)
		switch decision {
		case DecisionAllowed:
			c.Locals(userKey, user)
			return c.Next()
		case DecisionUnauthenticated:
			return g.unauthenticated(c)
		case DecisionDenied:
			return denialResponse(c, user, required)
		default:
			return apperrors.MapError(err)
		}
	}
}

func (g *Gate) unauthenticated(c *fiber.Ctx) error {
	if wantsHTML(c) {
		return c.Redirect(g.loginPath, http.StatusFound)
	}
	return apperrors.NewUnauthorized("authentication required")
}

// denialResponse renders the designed Denied state: not an exception, an
// explanation naming the missing permission and a way back.
func denialResponse(c *fiber.Ctx, user *domain.User, required []string) error {
	body := fiber.Map{
		"error": fiber.Map{
			"code":    "FORBIDDEN",
			"message": "you don't have the required permissions to view this page",
		},
		"required": strings.Join(required, ", "),
		"back":     "/",
	}
	if user != nil {
		body["user"] = fiber.Map{
			"name": user.FullName(),
			"role": user.Role,
		}
	}
	return c.Status(http.StatusForbidden).JSON(body)
}

func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "text/html")
}

const (
	sidKey  = "session_id"
	userKey = "session_user"
)

// WithSessionID records the resolved session ID on the request.
func WithSessionID(c *fiber.Ctx, sid string) {
	c.Locals(sidKey, sid)
}

// SessionID retrieves the session ID set by the session middleware.
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sidKey).(string)
	return sid
}

// UserFromContext retrieves the profile loaded by Require.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userKey).(*domain.User)
	return user, ok
}
