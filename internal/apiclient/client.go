// Package apiclient wraps the QueryPulse monitoring API. It is the only
// outbound boundary of the console and CLI: bearer-token injection, request
// IDs, and 401 handling all live here so callers never touch net/http.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token. The session container owns
// the token; the client only reads it at request time so a login or logout
// takes effect immediately.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource for a fixed token (CLI flag or env value).
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client is an HTTP client for the monitoring API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens         TokenSource
	onUnauthorized func()
}

// New creates a Client for the given base URL. A nil tokens source means
// requests go out unauthenticated.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
	}
}

// OnUnauthorized registers a hook invoked whenever the API answers 401.
// The session layer uses it to drop stale credentials.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Do executes a request against an /api/v1 path. The body, when non-nil, is
// JSON-encoded. The caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	return c.do(ctx, method, "/api/v1"+path, query, body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return resp, nil
}

// doJSON executes a request, checks the status, and decodes the response
// into out (which may be nil when the payload is irrelevant).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if err := CheckError(resp); err != nil {
		return err
	}
	if out == nil {
		_, err := ReadBody(resp)
		return err
	}
	data, err := ReadBody(resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	HTTPStatus int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.HTTPStatus, e.Message)
}

// CheckError converts a non-2xx response into an *APIError, consuming the
// body. The backend reports errors under "detail"; older endpoints use
// "message"; anything else falls back to the raw body.
func CheckError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := ReadBody(resp)

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Detail != "" {
			msg = payload.Detail
		} else {
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{HTTPStatus: resp.StatusCode, Message: msg}
}

// ReadBody reads and closes the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}
