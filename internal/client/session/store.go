package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/boabp/dashboard/internal/client/storage"
	"github.com/boabp/dashboard/internal/logging"
)

// TokenKey is the storage key of the token, identical in every backend.
const TokenKey = "boabp_token"

// DefaultSkew is how long before its exp a token is already treated as expired.
const DefaultSkew = 60 * time.Second

// Store keeps the current token and the reactive authenticated flag.
// It is safe for concurrent use.
type Store struct {
	registry *storage.Registry
	log      logging.Logger
	now      func() time.Time
	skew     time.Duration

	mu            sync.Mutex
	authenticated bool
	listeners     map[int]func(bool)
	nextListener  int
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSkew overrides DefaultSkew.
func WithSkew(d time.Duration) Option {
	return func(s *Store) { s.skew = d }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New builds a Store over registry and loads the stored token. A stored
// token that is already expired is purged immediately.
func New(ctx context.Context, registry *storage.Registry, opts ...Option) *Store {
	s := &Store{
		registry:  registry,
		log:       logging.Discard(),
		now:       time.Now,
		skew:      DefaultSkew,
		listeners: make(map[int]func(bool)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "session", "storage", string(registry.ActiveKind()))
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	token, ok := s.GetToken(ctx)
	if !ok {
		return
	}
	if s.IsTokenExpired(token) {
		s.log.Info(ctx, "stored token expired, purging")
		if err := s.ClearToken(ctx); err != nil {
			s.log.Warn(ctx, "purge expired token", "error", err)
		}
		return
	}
	s.mu.Lock()
	notify := s.setLocked(true)
	s.mu.Unlock()
	notify()
}

// SetToken stores token in the active backend. An empty token is refused
// with a warning and leaves the stored value untouched. A token that is
// already expired is never persisted: the stored session is purged instead.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		s.log.Warn(ctx, "refusing to store empty token")
		return nil
	}

	s.mu.Lock()
	if s.IsTokenExpired(token) {
		notify, err := s.clearLocked(ctx)
		s.mu.Unlock()
		notify()
		s.log.Warn(ctx, "refusing to store expired token")
		return err
	}
	if err := s.registry.Active().Set(ctx, TokenKey, []byte(token)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("store token: %w", err)
	}
	notify := s.setLocked(true)
	s.mu.Unlock()

	notify()
	s.log.Debug(ctx, "token stored")
	return nil
}

// GetToken reads the token from the active backend only. Read failures are
// logged and reported as absent.
func (s *Store) GetToken(ctx context.Context) (string, bool) {
	v, err := s.registry.Active().Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "read token", "error", err)
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

// ClearToken removes the token from every configured backend, not only the
// active one, and resets the authenticated flag. Clearing an empty store is
// a no-op. Backend failures are joined; the flag is reset regardless.
func (s *Store) ClearToken(ctx context.Context) error {
	s.mu.Lock()
	notify, err := s.clearLocked(ctx)
	s.mu.Unlock()

	notify()
	return err
}

func (s *Store) clearLocked(ctx context.Context) (func(), error) {
	var errs []error
	for _, b := range s.registry.All() {
		if err := b.Delete(ctx, TokenKey); err != nil {
			errs = append(errs, err)
		}
	}
	notify := s.setLocked(false)
	if err := errors.Join(errs...); err != nil {
		return notify, fmt.Errorf("clear token: %w", err)
	}
	return notify, nil
}

// ForceRefresh drops every trace of the current session. Call it after
// trust-sensitive changes such as a password update.
func (s *Store) ForceRefresh(ctx context.Context) error {
	s.log.Info(ctx, "forcing session refresh")
	return s.ClearToken(ctx)
}

// IsTokenExpired reports whether token is undecodable, has no exp, or
// expires within the skew window.
func (s *Store) IsTokenExpired(token string) bool {
	claims, ok := DecodeToken(token)
	if !ok {
		return true
	}
	return s.claimsExpired(claims)
}

func (s *Store) claimsExpired(claims *Claims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return !s.now().Before(claims.ExpiresAt.Time.Add(-s.skew))
}

// ExpirationTime returns the whole seconds left until the literal exp of
// token, or of the stored token when token is empty. Absent and expired
// tokens yield 0.
func (s *Store) ExpirationTime(ctx context.Context, token string) int64 {
	if token == "" {
		stored, ok := s.GetToken(ctx)
		if !ok {
			return 0
		}
		token = stored
	}

	claims, ok := DecodeToken(token)
	if !ok || s.claimsExpired(claims) {
		return 0
	}
	return int64(claims.ExpiresAt.Time.Sub(s.now()) / time.Second)
}

// Claims decodes the stored token.
func (s *Store) Claims(ctx context.Context) (*Claims, bool) {
	token, ok := s.GetToken(ctx)
	if !ok {
		return nil, false
	}
	return DecodeToken(token)
}

func (s *Store) Role(ctx context.Context) (string, bool) {
	claims, ok := s.Claims(ctx)
	if !ok || claims.Role == "" {
		return "", false
	}
	return claims.Role, true
}

func (s *Store) UserID(ctx context.Context) (string, bool) {
	claims, ok := s.Claims(ctx)
	if !ok || claims.UserID == "" {
		return "", false
	}
	return string(claims.UserID), true
}

// IsAuthenticated is the canonical guard: a token is stored and not
// expired. A stored token found expired here is purged. The read and the
// purge happen under one lock so a concurrent SetToken is never wiped.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	s.mu.Lock()
	token, ok := s.GetToken(ctx)
	if !ok {
		notify := s.setLocked(false)
		s.mu.Unlock()
		notify()
		return false
	}
	if !s.IsTokenExpired(token) {
		s.mu.Unlock()
		return true
	}

	notify, err := s.clearLocked(ctx)
	s.mu.Unlock()
	notify()

	s.log.Info(ctx, "token expired")
	if err != nil {
		s.log.Warn(ctx, "purge expired token", "error", err)
	}
	return false
}

// Authenticated returns the last published authenticated flag without
// touching storage.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Subscribe registers fn to be called whenever the authenticated flag
// changes. The returned func unregisters it.
func (s *Store) Subscribe(fn func(authenticated bool)) (cancel func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// setLocked updates the flag and returns the notification to run once the
// lock is released.
func (s *Store) setLocked(authenticated bool) func() {
	if s.authenticated == authenticated {
		return func() {}
	}
	s.authenticated = authenticated

	fns := make([]func(bool), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(authenticated)
		}
	}
}
