package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/events"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

type fakeProfiles struct {
	mu    sync.Mutex
	user  *domain.User
	err   error
	calls int32
	// block, when non-nil, is closed to release in-flight fetches.
	block chan struct{}
}

func (f *fakeProfiles) ProfileForSession(_ context.Context, _ string) (*domain.User, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func newTestManager(profiles ProfileFetcher) (*Manager, *MemoryTokenStore) {
	store := NewMemoryTokenStore()
	mgr := NewManager(store, time.Hour, time.Second, zap.NewNop())
	mgr.SetProfileFetcher(profiles)
	return mgr, store
}

func TestSetTokenRoundTrip(t *testing.T) {
	mgr, store := newTestManager(nil)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", "tok-1"))
	stored, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "tok-1", stored)

	require.NoError(t, mgr.SetToken(ctx, "s1", ""))
	stored, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestHydrationFromDurableStorage(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(context.Background(), "s1", "persisted", time.Hour))

	mgr := NewManager(store, time.Hour, time.Second, zap.NewNop())
	tok, err := mgr.Token(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, "persisted", tok)
}

func TestLogoutIsIdempotent(t *testing.T) {
	mgr, store := newTestManager(nil)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", "tok"))
	mgr.SetUser("s1", &domain.User{ID: "u1"})

	require.NoError(t, mgr.Logout(ctx, "s1"))
	first := mgr.Get(ctx, "s1")

	require.NoError(t, mgr.Logout(ctx, "s1"))
	second := mgr.Get(ctx, "s1")

	require.Equal(t, first, second)
	require.False(t, second.Authenticated())
	require.Nil(t, second.User)

	stored, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestUserTreatedAbsentWithoutToken(t *testing.T) {
	mgr, _ := newTestManager(nil)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", "tok"))
	mgr.SetUser("s1", &domain.User{ID: "u1"})
	require.NotNil(t, mgr.Get(ctx, "s1").User)

	// Dropping the token hides the profile, whatever memory still holds.
	require.NoError(t, mgr.SetToken(ctx, "s1", ""))
	snap := mgr.Get(ctx, "s1")
	require.False(t, snap.Authenticated())
	require.Nil(t, snap.User)
}

func TestFetchUserWithoutTokenSkipsNetwork(t *testing.T) {
	profiles := &fakeProfiles{user: &domain.User{ID: "u1"}}
	mgr, _ := newTestManager(profiles)

	_, err := mgr.FetchUser(context.Background(), "s1")
	require.Error(t, err)
	require.True(t, apperrors.IsUnauthenticated(err))
	require.Zero(t, atomic.LoadInt32(&profiles.calls))
}

func TestFetchUserStoresProfile(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "a@b.co", Permissions: domain.PermissionMap{"crm": true}}
	profiles := &fakeProfiles{user: user}
	mgr, _ := newTestManager(profiles)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", "tok"))
	got, err := mgr.FetchUser(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, user, got)
	require.Equal(t, user, mgr.Get(ctx, "s1").User)
}

func TestFetchUserDeniedClearsSession(t *testing.T) {
	profiles := &fakeProfiles{err: apperrors.NewUnauthorized("expired")}
	mgr, store := newTestManager(profiles)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", "tok"))
	_, err := mgr.FetchUser(ctx, "s1")
	require.Error(t, err)

	snap := mgr.Get(ctx, "s1")
	require.False(t, snap.Authenticated())
	require.Nil(t, snap.User)
	stored, _ := store.Get(ctx, "s1")
	require.Empty(t, stored)
}

func TestFetchUserTransientErrorKeepsToken(t *testing.T) {
	profiles := &fakeProfiles{err: apperrors.NewUpstreamUnavailable(context.Canceled)}
	mgr, _ := newTestManager(profiles)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", "tok"))
	_, err := mgr.FetchUser(ctx, "s1")
	require.Error(t, err)

	snap := mgr.Get(ctx, "s1")
	require.True(t, snap.Authenticated(), "network failure must not log the session out")
	require.NotEmpty(t, snap.Err)
}

func TestFetchUserCoalescesConcurrentCalls(t *testing.T) {
	profiles := &fakeProfiles{
		user:  &domain.User{ID: "u1"},
		block: make(chan struct{}),
	}
	mgr, _ := newTestManager(profiles)
	ctx := context.Background()
	require.NoError(t, mgr.SetToken(ctx, "s1", "tok"))

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = mgr.FetchUser(ctx, "s1")
		}(i)
	}

	// Give the goroutines time to pile onto the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(profiles.block)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&profiles.calls), "concurrent fetches must coalesce")
}

func TestSnapshotExposesJWTExpiry(t *testing.T) {
	// HS256 token with exp 2000000000 (2033-05-18), unverified peek only.
	const tok = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiJ1MSIsImV4cCI6MjAwMDAwMDAwMH0." +
		"4adcPe3tVnrFN53Z1yEqf9kUrzvqccGTyhfnTH0274w"
	mgr, _ := newTestManager(nil)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", tok))
	snap := mgr.Get(ctx, "s1")
	require.Equal(t, int64(2000000000), snap.ExpiresAt.Unix())
	require.False(t, snap.Stale())
}

func TestSnapshotExpiryZeroForOpaqueToken(t *testing.T) {
	mgr, _ := newTestManager(nil)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", "not-a-jwt"))
	snap := mgr.Get(ctx, "s1")
	require.True(t, snap.ExpiresAt.IsZero())
}

func TestAnonymousSessionsLeaveNoState(t *testing.T) {
	// Every cookie-less visitor gets a fresh sid, so reads for sessions
	// that never log in must not accumulate resident state.
	mgr, _ := newTestManager(nil)
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		mgr.Get(ctx, uuid.NewString())
	}
	require.Zero(t, mgr.cache.ItemCount())
}

func TestLogoutEvictsSessionState(t *testing.T) {
	mgr, _ := newTestManager(nil)
	ctx := context.Background()

	require.NoError(t, mgr.SetToken(ctx, "s1", "tok"))
	require.Equal(t, 1, mgr.cache.ItemCount())

	require.NoError(t, mgr.Logout(ctx, "s1"))
	require.Zero(t, mgr.cache.ItemCount())
}

func TestLogoutAnnouncesLiveSessionsOnly(t *testing.T) {
	mgr, _ := newTestManager(nil)
	ctx := context.Background()

	dispatcher := events.NewInMemoryDispatcher()
	var published int32
	dispatcher.Subscribe(events.EventSessionLogout, func(_ context.Context, _ events.Event) error {
		atomic.AddInt32(&published, 1)
		return nil
	})
	mgr.SetDispatcher(dispatcher)

	// Logging out a session that was never logged in announces nothing.
	require.NoError(t, mgr.Logout(ctx, "s1"))
	require.Zero(t, atomic.LoadInt32(&published))

	require.NoError(t, mgr.SetToken(ctx, "s1", "tok"))
	require.NoError(t, mgr.Logout(ctx, "s1"))
	require.NoError(t, mgr.Logout(ctx, "s1"))
	require.Equal(t, int32(1), atomic.LoadInt32(&published), "repeated logout announces once")
}
