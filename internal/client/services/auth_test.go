package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boabp/dashboard/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIn_StoresTokenAndReportsSession(t *testing.T) {
	ctx := context.Background()
	token := tokenValidFor(t, time.Hour)
	fc := &fakeClient{LoginToken: token}
	sessions := newSessions(t)
	svc := NewAuthService(fc, sessions, &fakeNav{}, "")

	info, err := svc.SignIn(ctx, "owner@example.com", []byte("secret"))
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", fc.LastLoginEmail)
	assert.Equal(t, []byte("secret"), fc.LastLoginPass)
	assert.Equal(t, "BILLBOARD_OWNER", info.Role)
	assert.Equal(t, "7", info.UserID)
	assert.Equal(t, "owner@example.com", info.Subject)
	assert.InDelta(t, time.Hour.Seconds(), info.ExpiresIn.Seconds(), 2)

	stored, ok := sessions.GetToken(ctx)
	require.True(t, ok)
	assert.Equal(t, token, stored)
	assert.True(t, sessions.IsAuthenticated(ctx))
}

func TestSignIn_LoginErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	sessions := newSessions(t)
	svc := NewAuthService(&fakeClient{LoginErr: boom}, sessions, &fakeNav{}, "")

	_, err := svc.SignIn(context.Background(), "a@b.c", []byte("x"))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "login error")
	assert.False(t, sessions.IsAuthenticated(context.Background()))
}

func TestSignIn_TokenInsideSkewIsRejected(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions(t)
	svc := NewAuthService(&fakeClient{LoginToken: tokenValidFor(t, 30*time.Second)}, sessions, &fakeNav{}, "")

	_, err := svc.SignIn(ctx, "a@b.c", []byte("x"))
	require.ErrorIs(t, err, ErrTokenExpired)

	_, ok := sessions.GetToken(ctx)
	assert.False(t, ok, "expired token must be purged")
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions(t)
	require.NoError(t, sessions.SetToken(ctx, tokenValidFor(t, time.Hour)))
	svc := NewAuthService(&fakeClient{}, sessions, &fakeNav{}, "")

	require.NoError(t, svc.SignOut(ctx))

	_, ok := svc.Session(ctx)
	assert.False(t, ok)
}

func TestChangePassword_ForcesFreshSignIn(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions(t)
	require.NoError(t, sessions.SetToken(ctx, tokenValidFor(t, time.Hour)))
	fc := &fakeClient{}
	nav := &fakeNav{}
	svc := NewAuthService(fc, sessions, nav, "/login")

	require.NoError(t, svc.ChangePassword(ctx, []byte("old"), []byte("new")))

	assert.Equal(t, []byte("old"), fc.LastCurrent)
	assert.Equal(t, []byte("new"), fc.LastNext)
	assert.False(t, sessions.IsAuthenticated(ctx))
	require.Len(t, nav.calls, 1)
	assert.Equal(t, "/login", nav.calls[0].route)
	assert.Empty(t, nav.calls[0].params.Get(client.ExpiredParam))
}

func TestChangePassword_FailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions(t)
	require.NoError(t, sessions.SetToken(ctx, tokenValidFor(t, time.Hour)))
	nav := &fakeNav{}
	svc := NewAuthService(&fakeClient{ChangeErr: client.ErrValidation}, sessions, nav, "")

	err := svc.ChangePassword(ctx, []byte("old"), []byte("short"))
	require.ErrorIs(t, err, client.ErrValidation)
	assert.True(t, sessions.IsAuthenticated(ctx))
	assert.Empty(t, nav.calls)
}

func TestChangePassword_RequiresSession(t *testing.T) {
	fc := &fakeClient{}
	svc := NewAuthService(fc, newSessions(t), &fakeNav{}, "")

	err := svc.ChangePassword(context.Background(), []byte("a"), []byte("b"))
	require.ErrorIs(t, err, ErrNotSignedIn)
	assert.Nil(t, fc.LastCurrent)
}

func TestPingAndClose(t *testing.T) {
	fc := &fakeClient{PingErr: client.ErrUnavailable}
	svc := NewAuthService(fc, newSessions(t), &fakeNav{}, "")

	require.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
	require.NoError(t, svc.Close(context.Background()))
	assert.True(t, fc.Closed)
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPing_ChecksExtraBackends(t *testing.T) {
	errGRPC := errors.New("grpc down")
	var calls int
	extra := pingerFunc(func(context.Context) error {
		calls++
		return errGRPC
	})

	svc := NewAuthService(&fakeClient{}, newSessions(t), &fakeNav{}, "", WithHealthChecks(extra))
	require.ErrorIs(t, svc.Ping(context.Background()), errGRPC)
	assert.Equal(t, 1, calls)

	svc = NewAuthService(&fakeClient{PingErr: client.ErrUnavailable}, newSessions(t), &fakeNav{}, "", WithHealthChecks(extra))
	require.ErrorIs(t, svc.Ping(context.Background()), client.ErrUnavailable)
	assert.Equal(t, 1, calls, "extra checks run only after the API answers")
}
