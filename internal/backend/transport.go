package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/admin-console/internal/events"
	"github.com/spec-kit/admin-console/internal/observability"
)

// TokenSource supplies and mutates the bearer token for a session.
// Implemented by the session manager.
type TokenSource interface {
	Token(ctx context.Context, sid string) (string, error)
	SetToken(ctx context.Context, sid, token string) error
	Logout(ctx context.Context, sid string) error
}

type ctxKey int

const sessionKey ctxKey = 0

// WithSession tags a request context with the session the call belongs to,
// so the transport knows whose token to attach.
func WithSession(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionKey, sid)
}

// SessionFromContext returns the session ID tagged by WithSession.
func SessionFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionKey).(string)
	return sid, ok
}

// retriedHeader marks a request that already went through one refresh
// cycle. Such a request never triggers a second refresh.
const retriedHeader = "X-Console-Retried"

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// AuthTransport attaches the session's bearer token to outbound requests
// and transparently recovers from one expired-token event per request:
// on 401 it performs a single-flight refresh, then retries the original
// request exactly once with the new token. A failed refresh forces logout
// and the original 401 is propagated.
type AuthTransport struct {
	base           http.RoundTripper
	tokens         TokenSource
	refreshURL     string
	refreshTimeout time.Duration
	sf             singleflight.Group
	metrics        *observability.Metrics
	dispatcher     events.Dispatcher
	logger         *zap.Logger
}

// NewAuthTransport wraps base. refreshURL is the absolute URL of the
// backend's POST /auth/refresh endpoint.
func NewAuthTransport(base http.RoundTripper, tokens TokenSource, refreshURL string, refreshTimeout time.Duration, metrics *observability.Metrics, logger *zap.Logger) *AuthTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &AuthTransport{
		base:           base,
		tokens:         tokens,
		refreshURL:     refreshURL,
		refreshTimeout: refreshTimeout,
		metrics:        metrics,
		logger:         logger,
	}
}

// SetDispatcher injects the lifecycle event sink. Optional; without it a
// failed refresh is still logged and counted but not announced.
func (t *AuthTransport) SetDispatcher(d events.Dispatcher) {
	t.dispatcher = d
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	sid, hasSession := SessionFromContext(req.Context())
	attached := false
	if hasSession {
		if tok, err := t.tokens.Token(req.Context(), sid); err == nil && tok != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+tok)
			attached = true
		}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// A 401 without an attached token has nothing to refresh.
	if resp.StatusCode != http.StatusUnauthorized || !attached || req.Header.Get(retriedHeader) != "" {
		return resp, nil
	}

	newToken, refreshErr := t.refresh(req.Context(), sid)
	if refreshErr != nil || newToken == "" {
		// Propagate the original authentication failure.
		return resp, nil
	}

	retry, cloneErr := cloneForRetry(req, newToken)
	if cloneErr != nil {
		return resp, nil
	}
	resp.Body.Close()
	return t.base.RoundTrip(retry)
}

// refresh coalesces concurrent refresh attempts for a session into one
// underlying call. Every caller observes the same outcome, and a failed
// refresh forces logout exactly once.
func (t *AuthTransport) refresh(ctx context.Context, sid string) (string, error) {
	result, err, shared := t.sf.Do(sid, func() (tok any, err error) {
		t.metrics.RefreshStarted()
		defer func() {
			if err != nil {
				t.metrics.RefreshFailed()
				if lerr := t.tokens.Logout(context.WithoutCancel(ctx), sid); lerr != nil {
					t.logger.Warn("logout after failed refresh", zap.Error(lerr))
				}
				if t.dispatcher != nil {
					_ = t.dispatcher.Publish(context.WithoutCancel(ctx), events.Event{
						Type:       events.EventSessionRefreshFailed,
						SessionID:  sid,
						OccurredAt: time.Now(),
					})
				}
			}
		}()

		refreshCtx := context.WithoutCancel(ctx)
		if t.refreshTimeout > 0 {
			var cancel context.CancelFunc
			refreshCtx, cancel = context.WithTimeout(refreshCtx, t.refreshTimeout)
			defer cancel()
		}

		req, err := http.NewRequestWithContext(refreshCtx, http.MethodPost, t.refreshURL, nil)
		if err != nil {
			return "", err
		}
		if tok, terr := t.tokens.Token(refreshCtx, sid); terr == nil && tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", errRefreshDenied
		}

		var body refreshResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", err
		}
		if body.AccessToken == "" {
			return "", errRefreshDenied
		}
		if err := t.tokens.SetToken(refreshCtx, sid, body.AccessToken); err != nil {
			return "", err
		}
		return body.AccessToken, nil
	})
	if shared {
		t.metrics.RefreshCoalesced()
	}
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func cloneForRetry(req *http.Request, token string) (*http.Request, error) {
	retry := req.Clone(req.Context())
	retry.Header.Set(retriedHeader, "1")
	retry.Header.Set("Authorization", "Bearer "+token)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	return retry, nil
}

var errRefreshDenied = &refreshDeniedError{}

type refreshDeniedError struct{}

func (*refreshDeniedError) Error() string { return "token refresh denied" }
