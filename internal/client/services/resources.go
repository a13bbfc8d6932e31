package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boabp/dashboard/internal/client/client"
)

// ResourceService reads backend resources on behalf of a signed-in user.
type ResourceService interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
}

type resourceService struct {
	client   client.Client
	sessions Sessions
}

func NewResourceService(c client.Client, sessions Sessions) ResourceService {
	return &resourceService{client: c, sessions: sessions}
}

// Get fetches path relative to the API base URL. It refuses to send a
// request without a live session.
func (r *resourceService) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if !r.sessions.IsAuthenticated(ctx) {
		return nil, ErrNotSignedIn
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	raw, err := r.client.Fetch(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return raw, nil
}
