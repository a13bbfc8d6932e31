package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/boabp/dashboard/internal/logging"
	"github.com/tidwall/gjson"
)

// DefaultSignInRoute is where an expired session is sent.
const DefaultSignInRoute = "/auth/signin"

// ExpiredParam marks a sign-in navigation caused by an expired session.
const ExpiredParam = "expired"

const defaultMaxErrorBody = 64 << 10

// Invoker sends a request.
type Invoker func(req *http.Request) (*http.Response, error)

// InterceptorFunc wraps an Invoker.
type InterceptorFunc func(req *http.Request, next Invoker) (*http.Response, error)

// Chain wraps base with interceptors; the first one runs outermost.
func Chain(base Invoker, interceptors ...InterceptorFunc) Invoker {
	next := base
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, inner := interceptors[i], next
		next = func(req *http.Request) (*http.Response, error) {
			return ic(req, inner)
		}
	}
	return next
}

// TokenStore is the part of the session store the interceptor needs.
type TokenStore interface {
	GetToken(ctx context.Context) (string, bool)
	ClearToken(ctx context.Context) error
}

// Navigator switches the UI to another route.
type Navigator interface {
	Navigate(ctx context.Context, route string, params url.Values)
}

// AuthInterceptor attaches credentials and normalizes failures.
type AuthInterceptor struct {
	tokens      TokenStore
	nav         Navigator
	signInRoute string
	maxBody     int64
	log         logging.Logger
}

type InterceptorOption func(*AuthInterceptor)

func WithSignInRoute(route string) InterceptorOption {
	return func(i *AuthInterceptor) { i.signInRoute = route }
}

func WithInterceptorLogger(l logging.Logger) InterceptorOption {
	return func(i *AuthInterceptor) { i.log = l }
}

// WithMaxErrorBody bounds how much of a failed response body is read.
func WithMaxErrorBody(n int64) InterceptorOption {
	return func(i *AuthInterceptor) { i.maxBody = n }
}

func NewAuthInterceptor(tokens TokenStore, nav Navigator, opts ...InterceptorOption) *AuthInterceptor {
	i := &AuthInterceptor{
		tokens:      tokens,
		nav:         nav,
		signInRoute: DefaultSignInRoute,
		maxBody:     defaultMaxErrorBody,
		log:         logging.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.log = i.log.With("component", "interceptor")
	return i
}

// Intercept implements InterceptorFunc. Requests without a stored token
// are sent as they are.
func (i *AuthInterceptor) Intercept(req *http.Request, next Invoker) (*http.Response, error) {
	ctx := req.Context()

	if token, ok := i.tokens.GetToken(ctx); ok {
		req = req.Clone(ctx)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := next(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, i.fail(ctx, Failure{
			Status: 0,
			Detail: err.Error(),
			Cause:  err,
		})
	}

	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}
	return nil, i.fail(ctx, i.readFailure(req, resp))
}

func (i *AuthInterceptor) readFailure(req *http.Request, resp *http.Response) Failure {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, i.maxBody))
	if err != nil {
		i.log.Debug(req.Context(), "read error body", "error", err)
	}

	se := &StatusError{
		StatusCode: resp.StatusCode,
		Method:     req.Method,
		URL:        req.URL.Redacted(),
		Header:     resp.Header.Clone(),
		Body:       body,
	}

	f := Failure{
		Status: resp.StatusCode,
		Detail: fmt.Sprintf("%s %s -> %d: %s", req.Method, se.URL, resp.StatusCode, body),
		Cause:  se,
	}
	if gjson.ValidBytes(body) {
		f.Message = gjson.GetBytes(body, "message").String()
		f.FieldErrors = parseFieldErrors(gjson.GetBytes(body, "fieldErrors"))
	}
	return f
}

// parseFieldErrors keeps the backend's key order.
func parseFieldErrors(v gjson.Result) []FieldError {
	if !v.IsObject() {
		return nil
	}
	var out []FieldError
	v.ForEach(func(key, value gjson.Result) bool {
		msg := value.String()
		if value.IsArray() {
			var msgs []string
			for _, m := range value.Array() {
				msgs = append(msgs, m.String())
			}
			msg = strings.Join(msgs, ", ")
		}
		out = append(out, FieldError{Field: key.String(), Message: msg})
		return true
	})
	return out
}

// fail runs the side effects of a failure and classifies it.
func (i *AuthInterceptor) fail(ctx context.Context, f Failure) error {
	switch f.Status {
	case http.StatusUnauthorized:
		i.expireSession(ctx)
	case http.StatusInternalServerError:
		i.log.Error(ctx, "server error", "detail", f.Detail)
	case 0:
		i.log.Warn(ctx, "server unreachable", "error", f.Detail)
	}
	return Classify(f)
}

func (i *AuthInterceptor) expireSession(ctx context.Context) {
	i.log.Info(ctx, "session rejected by server, signing out")
	if err := i.tokens.ClearToken(ctx); err != nil {
		i.log.Warn(ctx, "clear token", "error", err)
	}
	i.nav.Navigate(ctx, i.signInRoute, url.Values{ExpiredParam: {"true"}})
}
