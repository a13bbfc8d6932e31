package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/boabp/dashboard/internal/client/config"
	"github.com/boabp/dashboard/internal/client/services"
	"github.com/boabp/dashboard/internal/logging"
)

// capturePrintln replaces printlnFn and returns the collected lines.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func stubInputs(t *testing.T, email string, passwords ...[]byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	i := 0
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		pw := passwords[i%len(passwords)]
		i++
		return append([]byte(nil), pw...), nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAuth struct {
	signInEmail string
	signInPass  []byte
	signInInfo  services.SessionInfo
	signInErr   error
	signIns     int

	signOutErr error
	signOuts   int

	session   services.SessionInfo
	hasSession bool

	changeCurrent, changeNext []byte
	changeErr                 error
	changes                   int

	pingErr error
	closed  bool
}

func (f *fakeAuth) SignIn(_ context.Context, email string, password []byte) (services.SessionInfo, error) {
	f.signIns++
	f.signInEmail, f.signInPass = email, append([]byte(nil), password...)
	return f.signInInfo, f.signInErr
}

func (f *fakeAuth) SignOut(context.Context) error {
	f.signOuts++
	return f.signOutErr
}

func (f *fakeAuth) Session(context.Context) (services.SessionInfo, bool) {
	return f.session, f.hasSession
}

func (f *fakeAuth) ChangePassword(_ context.Context, current, next []byte) error {
	f.changes++
	f.changeCurrent, f.changeNext = append([]byte(nil), current...), append([]byte(nil), next...)
	return f.changeErr
}

func (f *fakeAuth) Ping(context.Context) error  { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error { f.closed = true; return nil }

type fakeResources struct {
	ret   json.RawMessage
	err   error
	paths []string
}

func (f *fakeResources) Get(_ context.Context, path string) (json.RawMessage, error) {
	f.paths = append(f.paths, path)
	return f.ret, f.err
}

type fakeSessions struct {
	mu        sync.Mutex
	flag      bool
	valid     bool
	listeners []func(bool)
}

func (f *fakeSessions) IsAuthenticated(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.valid {
		f.flag = false
	}
	return f.valid
}

func (f *fakeSessions) Authenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flag
}

func (f *fakeSessions) Subscribe(fn func(bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, fn)
	return func() {}
}

func newTestApp(auth *fakeAuth, res *fakeResources, sessions *fakeSessions) *App {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SessionCheckInterval = 10 * time.Millisecond
	return NewApp(cfg, auth, res, sessions, NewRouter(nil), logging.Discard())
}
