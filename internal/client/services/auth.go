// Package services contains application services for the dashboard client.
// This file defines the authentication service: sign-in, sign-out, session
// inspection, and password change.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boabp/dashboard/internal/client/client"
	"github.com/boabp/dashboard/internal/client/session"
)

var (
	// ErrNotSignedIn is returned by operations that require a live session.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrTokenExpired means the server issued a token the client already
	// considers expired, typically because of clock drift.
	ErrTokenExpired = errors.New("received token is already expired")
)

// Sessions is the part of the session store the services rely on.
type Sessions interface {
	SetToken(ctx context.Context, token string) error
	GetToken(ctx context.Context) (string, bool)
	ClearToken(ctx context.Context) error
	ForceRefresh(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	Claims(ctx context.Context) (*session.Claims, bool)
	ExpirationTime(ctx context.Context, token string) int64
}

var _ Sessions = (*session.Store)(nil)

// SessionInfo describes the signed-in principal.
type SessionInfo struct {
	Role      string
	UserID    string
	Subject   string
	ExpiresIn time.Duration
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: exchange credentials for a token and store it.
//   - SignOut: drop the token from every storage backend.
//   - Session: describe the current session, if any.
//   - ChangePassword: update the password, then force a fresh sign-in.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	SignIn(ctx context.Context, email string, password []byte) (SessionInfo, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (SessionInfo, bool)
	ChangePassword(ctx context.Context, current, next []byte) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Pinger is an additional backend checked by Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AuthOption func(*authService)

// WithHealthChecks adds backends that Ping must reach besides the API.
func WithHealthChecks(p ...Pinger) AuthOption {
	return func(a *authService) { a.health = append(a.health, p...) }
}

type authService struct {
	client      client.Client
	sessions    Sessions
	nav         client.Navigator
	signInRoute string
	health      []Pinger
}

// NewAuthService constructs an AuthService. nav receives the sign-in
// navigation that follows a password change.
func NewAuthService(c client.Client, sessions Sessions, nav client.Navigator, signInRoute string, opts ...AuthOption) AuthService {
	if signInRoute == "" {
		signInRoute = client.DefaultSignInRoute
	}
	a := &authService{client: c, sessions: sessions, nav: nav, signInRoute: signInRoute}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *authService) SignIn(ctx context.Context, email string, password []byte) (SessionInfo, error) {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("login error: %w", err)
	}

	if err := a.sessions.SetToken(ctx, token); err != nil {
		return SessionInfo{}, fmt.Errorf("store token: %w", err)
	}

	info, ok := a.Session(ctx)
	if !ok {
		return SessionInfo{}, ErrTokenExpired
	}
	return info, nil
}

func (a *authService) SignOut(ctx context.Context) error {
	return a.sessions.ClearToken(ctx)
}

// Session reports the current session. It returns false when no valid
// token is stored; an expired token is purged as a side effect.
func (a *authService) Session(ctx context.Context) (SessionInfo, bool) {
	if !a.sessions.IsAuthenticated(ctx) {
		return SessionInfo{}, false
	}
	token, ok := a.sessions.GetToken(ctx)
	if !ok {
		return SessionInfo{}, false
	}
	claims, ok := a.sessions.Claims(ctx)
	if !ok {
		return SessionInfo{}, false
	}

	return SessionInfo{
		Role:      claims.Role,
		UserID:    string(claims.UserID),
		Subject:   claims.Subject,
		ExpiresIn: time.Duration(a.sessions.ExpirationTime(ctx, token)) * time.Second,
	}, true
}

func (a *authService) ChangePassword(ctx context.Context, current, next []byte) error {
	if !a.sessions.IsAuthenticated(ctx) {
		return ErrNotSignedIn
	}
	if err := a.client.ChangePassword(ctx, current, next); err != nil {
		return fmt.Errorf("change password error: %w", err)
	}

	if err := a.sessions.ForceRefresh(ctx); err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	a.nav.Navigate(ctx, a.signInRoute, nil)
	return nil
}

// Ping proxies a liveness check to the underlying client, then to every
// extra health check. The first failure is returned.
func (a *authService) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	for _, p := range a.health {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
