package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/boabp/dashboard/internal/client/client"
	"github.com/boabp/dashboard/internal/client/config"
	"github.com/boabp/dashboard/internal/client/services"
	"github.com/boabp/dashboard/internal/logging"
)

// SessionView is the part of the session store the CLI observes.
type SessionView interface {
	IsAuthenticated(ctx context.Context) bool
	Authenticated() bool
	Subscribe(fn func(authenticated bool)) (cancel func())
}

type App struct {
	authService   services.AuthService
	resources     services.ResourceService
	sessions      SessionView
	router        *Router
	signInRoute   string
	checkInterval time.Duration
	log           logging.Logger

	reader   *bufio.Reader
	out      io.Writer
	busy     *inflight
	loggedIn atomic.Bool
	userName string
}

func NewApp(
	c *config.Config,
	auth services.AuthService,
	resources services.ResourceService,
	sessions SessionView,
	router *Router,
	l logging.Logger,
) *App {
	return &App{
		authService:   auth,
		resources:     resources,
		sessions:      sessions,
		router:        router,
		signInRoute:   c.SignInRoute,
		checkInterval: c.SessionCheckInterval,
		log:           l.With("component", "cli"),
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stdout,
		busy:          newInflight(),
	}
}

// Run blocks until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)

	unsubscribe := a.sessions.Subscribe(a.onSessionChange)
	defer unsubscribe()
	a.loggedIn.Store(a.sessions.Authenticated())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to the BOABP dashboard CLI (type 'help' for commands)")

	if !a.isLoggedIn() {
		_ = a.Login(ctx)
	}

	go a.StartSessionWatcher(ctx, a.checkInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) onSessionChange(authenticated bool) {
	a.loggedIn.Store(authenticated)
	if !authenticated {
		a.log.Info(context.Background(), "session ended")
	}
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn.Load()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return "(signed out)"
	}
	if a.userName == "" {
		return "(signed in)"
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// StartSessionWatcher re-checks the stored token every interval so that
// expiry is noticed without waiting for the server to reject a request.
func (a *App) StartSessionWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkSession(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkSession(ctx context.Context) {
	was := a.sessions.Authenticated()
	if was && !a.sessions.IsAuthenticated(ctx) {
		a.log.Info(ctx, "session expired")
		a.router.Navigate(ctx, a.signInRoute, url.Values{client.ExpiredParam: {"true"}})
	}
}

// followNavigation acts on a pending sign-in navigation, if any.
func (a *App) followNavigation(ctx context.Context) {
	nav, ok := a.router.Take()
	if !ok {
		return
	}
	if nav.Route != a.signInRoute {
		a.log.Warn(ctx, "unknown route", "route", nav.Route)
		return
	}

	a.userName = ""
	if nav.Expired {
		printlnFn(MsgSessionExpiredNotice)
	}
	_ = a.Login(ctx)
}
