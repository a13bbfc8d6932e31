package client

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type healthServer struct {
	health *health.Server

	mu         sync.Mutex
	authHeader []string
	reject     bool
}

func (s *healthServer) intercept(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	s.mu.Lock()
	s.authHeader = md.Get("authorization")
	reject := s.reject
	s.mu.Unlock()

	if reject {
		return nil, status.Error(codes.Unauthenticated, "token expired")
	}
	return handler(ctx, req)
}

func startHealthServer(t *testing.T) (*healthServer, func(context.Context, string) (net.Conn, error)) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	hs := &healthServer{health: health.NewServer()}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(hs.intercept))
	healthpb.RegisterHealthServer(srv, hs.health)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return hs, func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
}

func newTestGRPCClient(t *testing.T, dial func(context.Context, string) (net.Conn, error), ic *AuthInterceptor) *GRPCClient {
	t.Helper()
	c, err := NewGRPCClient("passthrough:///bufnet", ic.UnaryClientInterceptor(), grpc.WithContextDialer(dial))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_PingServing(t *testing.T) {
	hs, dial := startHealthServer(t)
	c := newTestGRPCClient(t, dial, NewAuthInterceptor(&fakeTokens{token: "a.b.c"}, &fakeNav{}))

	require.NoError(t, c.Ping(context.Background()))

	hs.mu.Lock()
	defer hs.mu.Unlock()
	assert.Equal(t, []string{"Bearer a.b.c"}, hs.authHeader)
}

func TestGRPCClient_PingNotServing(t *testing.T) {
	hs, dial := startHealthServer(t)
	hs.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	c := newTestGRPCClient(t, dial, NewAuthInterceptor(&fakeTokens{}, &fakeNav{}))

	err := c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, MsgUnavailable, err.Error())
}

func TestGRPCClient_UnauthenticatedExpiresSession(t *testing.T) {
	hs, dial := startHealthServer(t)
	hs.reject = true
	tokens := &fakeTokens{token: "a.b.c"}
	nav := &fakeNav{}
	c := newTestGRPCClient(t, dial, NewAuthInterceptor(tokens, nav))

	err := c.Ping(context.Background())

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, tokens.clears)
	require.Len(t, nav.calls, 1)
	assert.Equal(t, "true", nav.calls[0].params.Get(ExpiredParam))
}
