package services

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/boabp/dashboard/internal/client/session"
	"github.com/boabp/dashboard/internal/client/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	LoginToken string
	LoginErr   error
	PingErr    error
	CloseErr   error
	FetchRet   json.RawMessage
	FetchErr   error
	ChangeErr  error

	LastLoginEmail string
	LastLoginPass  []byte
	LastFetchPath  string
	LastCurrent    []byte
	LastNext       []byte
	Fetches        int
	Closed         bool
}

func (f *fakeClient) Close() error {
	f.Closed = true
	return f.CloseErr
}

func (f *fakeClient) Login(_ context.Context, email string, password []byte) (string, error) {
	f.LastLoginEmail = email
	f.LastLoginPass = password
	return f.LoginToken, f.LoginErr
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Fetch(_ context.Context, path string) (json.RawMessage, error) {
	f.Fetches++
	f.LastFetchPath = path
	return f.FetchRet, f.FetchErr
}

func (f *fakeClient) ChangePassword(_ context.Context, current, next []byte) error {
	f.LastCurrent, f.LastNext = current, next
	return f.ChangeErr
}

type navigation struct {
	route  string
	params url.Values
}

type fakeNav struct{ calls []navigation }

func (f *fakeNav) Navigate(_ context.Context, route string, params url.Values) {
	f.calls = append(f.calls, navigation{route: route, params: params})
}

func newSessions(t *testing.T) *session.Store {
	t.Helper()
	r, err := storage.NewRegistry(storage.KindMemory, map[storage.Kind]storage.Backend{
		storage.KindPersistent: storage.NewMemoryBackend(),
		storage.KindMemory:     storage.NewMemoryBackend(),
	})
	require.NoError(t, err)
	return session.New(context.Background(), r)
}

func tokenValidFor(t *testing.T, d time.Duration) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "owner@example.com",
		"exp":    time.Now().Add(d).Unix(),
		"role":   "BILLBOARD_OWNER",
		"userId": 7,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}
