package session

import (
	"context"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/events"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

// ProfileFetcher loads the authenticated profile for a session from the
// backend. Implemented by the backend client.
type ProfileFetcher interface {
	ProfileForSession(ctx context.Context, sid string) (*domain.User, error)
}

// Snapshot is a copy of one session's state, safe to hand to callers.
type Snapshot struct {
	SID       string
	Token     string
	User      *domain.User
	Loading   bool
	Err       string
	ExpiresAt time.Time
}

// Authenticated reports whether the session carries a token. Absence of a
// token means the user must be treated as absent, whatever memory says.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Stale reports whether the token's exp claim has passed. Opaque tokens
// never report stale; their expiry surfaces as a 401 on use.
func (s Snapshot) Stale() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

type state struct {
	token   string
	user    *domain.User
	loading bool
	err     string
	// hydrated is set once the durable store has been consulted, so a
	// present token is not re-read on every touch.
	hydrated bool
}

// Manager is the single source of truth for who is logged in and what they
// may do. Tokens are mirrored to the TokenStore; profiles live in memory
// only and are refetched on demand. In-memory state is kept in an expiring
// cache bounded by the session TTL, and empty states are never retained, so
// anonymous traffic leaves nothing behind.
type Manager struct {
	mu    sync.Mutex
	cache *gocache.Cache

	store      TokenStore
	profiles   ProfileFetcher
	dispatcher events.Dispatcher
	sf         singleflight.Group

	ttl          time.Duration
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewManager constructs a manager. profiles may be set later via
// SetProfileFetcher to break the wiring cycle with the backend client.
func NewManager(store TokenStore, ttl, fetchTimeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		cache:        gocache.New(ttl, time.Hour),
		store:        store,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// SetProfileFetcher injects the backend profile dependency.
func (m *Manager) SetProfileFetcher(p ProfileFetcher) {
	m.profiles = p
}

// SetDispatcher injects the lifecycle event sink. Optional; without it
// logouts are not announced.
func (m *Manager) SetDispatcher(d events.Dispatcher) {
	m.dispatcher = d
}

func (m *Manager) session(sid string) *state {
	if v, ok := m.cache.Get(sid); ok {
		return v.(*state)
	}
	return &state{}
}

// keepLocked retains st only while it carries something worth keeping.
// Called with mu held.
func (m *Manager) keepLocked(sid string, st *state) {
	if st.token == "" && st.user == nil && st.err == "" && !st.loading {
		m.cache.Delete(sid)
		return
	}
	m.cache.Set(sid, st, gocache.DefaultExpiration)
}

// hydrateLocked loads the durable token on first touch. Called with mu held.
func (m *Manager) hydrateLocked(ctx context.Context, sid string, st *state) {
	if st.hydrated {
		return
	}
	st.hydrated = true
	tok, err := m.store.Get(ctx, sid)
	if err != nil {
		m.logger.Warn("token hydration failed", zap.String("sid", sid), zap.Error(err))
		return
	}
	st.token = tok
}

// Token returns the session's bearer token, hydrating from durable storage
// on first touch.
func (m *Manager) Token(ctx context.Context, sid string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.session(sid)
	m.hydrateLocked(ctx, sid, st)
	m.keepLocked(sid, st)
	return st.token, nil
}

// SetToken replaces the in-memory token and mirrors it to durable storage:
// written when non-empty, removed when empty. No network effect.
func (m *Manager) SetToken(ctx context.Context, sid, token string) error {
	m.mu.Lock()
	st := m.session(sid)
	st.token = token
	st.hydrated = true
	m.keepLocked(sid, st)
	m.mu.Unlock()

	if token == "" {
		return m.store.Delete(ctx, sid)
	}
	return m.store.Set(ctx, sid, token, m.ttl)
}

// SetUser replaces the in-memory profile. Never persisted.
func (m *Manager) SetUser(sid string, user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.session(sid)
	st.user = user
	m.keepLocked(sid, st)
}

// Logout evicts the session state and removes the persisted token.
// Idempotent; the logout event fires only when a live session was cleared,
// so a repeated logout announces nothing.
func (m *Manager) Logout(ctx context.Context, sid string) error {
	m.mu.Lock()
	st := m.session(sid)
	m.hydrateLocked(ctx, sid, st)
	live := st.token != "" || st.user != nil
	var email string
	if st.user != nil {
		email = st.user.Email
	}
	m.cache.Delete(sid)
	m.mu.Unlock()

	err := m.store.Delete(ctx, sid)
	if live && m.dispatcher != nil {
		_ = m.dispatcher.Publish(context.WithoutCancel(ctx), events.Event{
			Type:       events.EventSessionLogout,
			SessionID:  sid,
			UserEmail:  email,
			OccurredAt: time.Now(),
		})
	}
	return err
}

// Get returns a snapshot of the session, hydrating the token first.
func (m *Manager) Get(ctx context.Context, sid string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.session(sid)
	m.hydrateLocked(ctx, sid, st)
	snap := m.snapshotLocked(sid, st)
	m.keepLocked(sid, st)
	return snap
}

func (m *Manager) snapshotLocked(sid string, st *state) Snapshot {
	snap := Snapshot{
		SID:     sid,
		Token:   st.token,
		Loading: st.loading,
		Err:     st.err,
	}
	// Without a token the profile is stale by definition.
	if st.token != "" {
		snap.User = st.user
		snap.ExpiresAt = tokenExpiry(st.token)
	}
	return snap
}

// FetchUser loads the profile from the backend. Concurrent calls for the
// same session coalesce onto one in-flight request. An authentication-denied
// response clears the whole session; other failures record an error and
// leave the token intact.
func (m *Manager) FetchUser(ctx context.Context, sid string) (*domain.User, error) {
	m.mu.Lock()
	st := m.session(sid)
	m.hydrateLocked(ctx, sid, st)
	if st.token == "" {
		m.keepLocked(sid, st)
		m.mu.Unlock()
		return nil, apperrors.NewUnauthorized("no session token")
	}
	st.loading = true
	st.err = ""
	m.keepLocked(sid, st)
	m.mu.Unlock()

	user, err, _ := m.sf.Do(sid, func() (any, error) {
		fetchCtx := ctx
		if m.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), m.fetchTimeout)
			defer cancel()
		}
		return m.profiles.ProfileForSession(fetchCtx, sid)
	})

	m.mu.Lock()
	st.loading = false
	m.keepLocked(sid, st)
	m.mu.Unlock()

	if err != nil {
		if apperrors.IsUnauthenticated(err) {
			// Invalid or expired credentials are fatal to the session.
			if lerr := m.Logout(ctx, sid); lerr != nil {
				m.logger.Warn("logout after denied profile fetch", zap.Error(lerr))
			}
			return nil, err
		}
		msg := "failed to fetch user"
		if apperrors.IsTimedOut(err) {
			msg = "profile fetch timed out"
		}
		m.mu.Lock()
		st.err = msg
		m.keepLocked(sid, st)
		m.mu.Unlock()
		return nil, err
	}

	u := user.(*domain.User)
	m.SetUser(sid, u)
	return u, nil
}

// tokenExpiry peeks at the JWT exp claim without verifying the signature.
// Verification is the backend's job; the gateway only uses expiry to report
// staleness. Opaque tokens yield a zero time.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
