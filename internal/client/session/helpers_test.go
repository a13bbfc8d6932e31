package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boabp/dashboard/internal/client/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// tokenExpiringIn returns a token whose exp is d after fixedNow.
func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{
		"sub":    "42",
		"iat":    fixedNow.Add(-time.Hour).Unix(),
		"exp":    fixedNow.Add(d).Unix(),
		"role":   "ADVERTISER",
		"userId": 42,
	})
}

type failingBackend struct {
	getErr, setErr, delErr error
	deletes                int
}

func (f *failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f *failingBackend) Set(context.Context, string, []byte) error  { return f.setErr }
func (f *failingBackend) Delete(context.Context, string) error {
	f.deletes++
	return f.delErr
}

var errBackend = errors.New("backend down")

type backends struct {
	persistent *storage.MemoryBackend
	tab        *storage.MemoryBackend
	memory     *storage.MemoryBackend
}

func newRegistry(t *testing.T, active storage.Kind) (*storage.Registry, backends) {
	t.Helper()
	b := backends{
		persistent: storage.NewMemoryBackend(),
		tab:        storage.NewMemoryBackend(),
		memory:     storage.NewMemoryBackend(),
	}
	r, err := storage.NewRegistry(active, map[storage.Kind]storage.Backend{
		storage.KindPersistent: b.persistent,
		storage.KindTab:        b.tab,
		storage.KindMemory:     b.memory,
	})
	require.NoError(t, err)
	return r, b
}

func newStore(t *testing.T, active storage.Kind) (*Store, backends) {
	t.Helper()
	r, b := newRegistry(t, active)
	return New(context.Background(), r, WithClock(clock)), b
}

// pausingBackend blocks the next Get once armed, until release is closed.
type pausingBackend struct {
	storage.Backend
	armed   chan struct{}
	entered chan struct{}
	release chan struct{}
}

func newPausingBackend() *pausingBackend {
	return &pausingBackend{
		Backend: storage.NewMemoryBackend(),
		armed:   make(chan struct{}, 1),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *pausingBackend) arm() { p.armed <- struct{}{} }

func (p *pausingBackend) Get(ctx context.Context, key string) ([]byte, error) {
	select {
	case <-p.armed:
		close(p.entered)
		<-p.release
	default:
	}
	return p.Backend.Get(ctx, key)
}
