package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCClient checks a gRPC endpoint with the standard health service.
// Calls pass through the given unary interceptor, so a rejected session is
// handled exactly as on the REST path.
type GRPCClient struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

// NewGRPCClient prepares a plaintext connection to target. The connection
// is established lazily on the first call. opts are applied after the
// defaults and may override the transport credentials.
func NewGRPCClient(target string, interceptor grpc.UnaryClientInterceptor, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(interceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client %q: %w", target, err)
	}
	return &GRPCClient{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

// Ping succeeds only when the server reports SERVING for the overall
// service.
func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return err
	}
	if st := resp.GetStatus(); st != healthpb.HealthCheckResponse_SERVING {
		return Classify(Failure{Detail: "grpc health: " + st.String()})
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
