package client

import (
	"context"
	"encoding/json"
)

// Client is the backend API used by the services.
type Client interface {
	Close() error
	Login(ctx context.Context, email string, password []byte) (string, error)
	Ping(ctx context.Context) error
	Fetch(ctx context.Context, path string) (json.RawMessage, error)
	ChangePassword(ctx context.Context, current, next []byte) error
}

var _ Client = (*HTTPClient)(nil)
