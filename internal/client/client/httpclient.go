package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// HTTPClient talks to the marketplace REST backend. Every request passes
// through the configured interceptors.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	invoke  Invoker
}

// NewHTTPClient builds a client for baseURL. A nil httpClient means
// http.DefaultClient.
func NewHTTPClient(baseURL string, httpClient *http.Client, interceptors ...InterceptorFunc) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: u,
		http:    httpClient,
		invoke:  Chain(httpClient.Do, interceptors...),
	}, nil
}

func (c *HTTPClient) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	u := c.baseURL.JoinPath(ref.Path)
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

// Do sends req through the interceptor chain.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.invoke(req)
}

// DoJSON sends in (if not nil) as a JSON body and decodes the response
// into out (if not nil).
func (c *HTTPClient) DoJSON(ctx context.Context, method, path string, in, out any) error {
	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. The backend may name the field
// either token or accessToken.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (string, error) {
	var raw json.RawMessage
	if err := c.DoJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: string(password)}, &raw); err != nil {
		return "", err
	}

	token := gjson.GetBytes(raw, "token").String()
	if token == "" {
		token = gjson.GetBytes(raw, "accessToken").String()
	}
	if strings.Count(token, ".") != 2 {
		return "", ErrTokenResponse
	}
	return token, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.DoJSON(ctx, http.MethodGet, "/api/health", nil, nil)
}

// Fetch performs a GET and returns the raw JSON body.
func (c *HTTPClient) Fetch(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.DoJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *HTTPClient) ChangePassword(ctx context.Context, current, next []byte) error {
	return c.DoJSON(ctx, http.MethodPut, "/api/auth/password", changePasswordRequest{
		CurrentPassword: string(current),
		NewPassword:     string(next),
	}, nil)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
