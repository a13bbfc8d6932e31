package client

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/boabp/dashboard/internal/logging"
)

type fakeTokens struct {
	mu     sync.Mutex
	token  string
	clears int
}

func (f *fakeTokens) GetToken(context.Context) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.token != ""
}

func (f *fakeTokens) ClearToken(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.token = ""
	return nil
}

type navigation struct {
	route  string
	params url.Values
}

type fakeNav struct {
	mu    sync.Mutex
	calls []navigation
}

func (f *fakeNav) Navigate(_ context.Context, route string, params url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, navigation{route: route, params: params})
}

func bufferLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogLogger(slog.New(h)), &buf
}
