package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admin-console/internal/domain"
	"github.com/spec-kit/admin-console/internal/session"
	apperrors "github.com/spec-kit/admin-console/pkg/util"
)

type fakeSessions struct {
	snap       session.Snapshot
	fetchUser  *domain.User
	fetchErr   error
	fetchCalls int
}

func (f *fakeSessions) Get(_ context.Context, _ string) session.Snapshot {
	return f.snap
}

func (f *fakeSessions) FetchUser(_ context.Context, _ string) (*domain.User, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetchUser, nil
}

func TestGateNoTokenIsUnauthenticatedWithoutFetch(t *testing.T) {
	sessions := &fakeSessions{snap: session.Snapshot{SID: "s1"}}
	gate := NewGate(sessions, "/login")

	decision, user, err := gate.Check(context.Background(), "s1", "crm")

	require.NoError(t, err)
	require.Equal(t, DecisionUnauthenticated, decision)
	require.Nil(t, user)
	require.Zero(t, sessions.fetchCalls, "no token must mean no network call")
}

func TestGateUsesCachedUser(t *testing.T) {
	user := &domain.User{ID: "u1", Permissions: domain.PermissionMap{"crm": true}}
	sessions := &fakeSessions{snap: session.Snapshot{SID: "s1", Token: "tok", User: user}}
	gate := NewGate(sessions, "/login")

	decision, got, err := gate.Check(context.Background(), "s1", "crm")

	require.NoError(t, err)
	require.Equal(t, DecisionAllowed, decision)
	require.Equal(t, user, got)
	require.Zero(t, sessions.fetchCalls)
}

func TestGateFetchesProfileWhenAbsent(t *testing.T) {
	user := &domain.User{ID: "u1", Permissions: domain.PermissionMap{"finance_list": true}}
	sessions := &fakeSessions{
		snap:      session.Snapshot{SID: "s1", Token: "tok"},
		fetchUser: user,
	}
	gate := NewGate(sessions, "/login")

	decision, got, err := gate.Check(context.Background(), "s1", "finance_list")

	require.NoError(t, err)
	require.Equal(t, DecisionAllowed, decision)
	require.Equal(t, user, got)
	require.Equal(t, 1, sessions.fetchCalls)
}

func TestGateDeniedKeepsUser(t *testing.T) {
	user := &domain.User{ID: "u1", Name: "Said", Role: "Assistant", Permissions: domain.PermissionMap{}}
	sessions := &fakeSessions{snap: session.Snapshot{SID: "s1", Token: "tok", User: user}}
	gate := NewGate(sessions, "/login")

	decision, got, err := gate.Check(context.Background(), "s1", "finance_list")

	require.NoError(t, err)
	require.Equal(t, DecisionDenied, decision)
	require.Equal(t, user, got)
}

func TestGateFetchDeniedIsUnauthenticated(t *testing.T) {
	sessions := &fakeSessions{
		snap:     session.Snapshot{SID: "s1", Token: "expired"},
		fetchErr: apperrors.NewUnauthorized("token expired"),
	}
	gate := NewGate(sessions, "/login")

	decision, user, err := gate.Check(context.Background(), "s1", "crm")

	require.NoError(t, err)
	require.Equal(t, DecisionUnauthenticated, decision)
	require.Nil(t, user)
}

func TestGateTransientFetchErrorIsRetryable(t *testing.T) {
	sessions := &fakeSessions{
		snap:     session.Snapshot{SID: "s1", Token: "tok"},
		fetchErr: apperrors.NewTimedOut("auth.me"),
	}
	gate := NewGate(sessions, "/login")

	decision, _, err := gate.Check(context.Background(), "s1", "crm")

	require.Equal(t, DecisionError, decision)
	require.Error(t, err)
	require.True(t, apperrors.IsTimedOut(err))
}
