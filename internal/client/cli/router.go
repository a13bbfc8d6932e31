package cli

import (
	"context"
	"net/url"
	"sync"

	"github.com/boabp/dashboard/internal/client/client"
	"github.com/boabp/dashboard/internal/logging"
)

// Navigation is a pending route switch.
type Navigation struct {
	Route   string
	Expired bool
}

// Router records navigation requests until the REPL is ready to act on
// them. Only the latest request is kept.
type Router struct {
	mu      sync.Mutex
	pending *Navigation
	log     logging.Logger
}

var _ client.Navigator = (*Router)(nil)

func NewRouter(l logging.Logger) *Router {
	if l == nil {
		l = logging.Discard()
	}
	return &Router{log: l.With("component", "router")}
}

func (r *Router) Navigate(ctx context.Context, route string, params url.Values) {
	nav := Navigation{Route: route, Expired: params.Get(client.ExpiredParam) == "true"}

	r.mu.Lock()
	r.pending = &nav
	r.mu.Unlock()

	r.log.Debug(ctx, "navigation requested", "route", route, "expired", nav.Expired)
}

// Take returns and clears the pending navigation.
func (r *Router) Take() (Navigation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending == nil {
		return Navigation{}, false
	}
	nav := *r.pending
	r.pending = nil
	return nav, true
}

// Discard drops the pending navigation if it targets route. Other pending
// navigations are kept.
func (r *Router) Discard(route string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending == nil || r.pending.Route != route {
		return false
	}
	r.pending = nil
	return true
}
