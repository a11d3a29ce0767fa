package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds connect plus response for every request.
const DefaultTimeout = 10 * time.Second

// Credentials supplies the bearer token and forgets it when the backend
// rejects the session.
type Credentials interface {
	Token() string
	Clear() error
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithCredentials sets the token source consulted on every request.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) { c.creds = creds }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "gateway").Logger() }
}

// WithMetrics records request counts and latencies.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client is the single network access point for the admin backend. It injects
// the bearer token, normalizes failures into *APIError / *TransportError and
// turns a 401 into a session-invalidated signal.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	signal     *Signal
	log        zerolog.Logger
	metrics    *Metrics
}

// New creates a new gateway for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		signal: &Signal{},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SessionInvalidated is raised after a 401 once stored credentials are cleared.
func (c *Client) SessionInvalidated() *Signal {
	return c.signal
}

// Get issues a GET and decodes the response into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if tok := c.creds.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.metrics.observe(method, resp.StatusCode, time.Since(start))
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode >= 400 {
		apiErr := readAPIError(resp)
		if resp.StatusCode == http.StatusUnauthorized {
			c.invalidateSession()
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) invalidateSession() {
	if c.creds != nil {
		if err := c.creds.Clear(); err != nil {
			c.log.Warn().Err(err).Msg("clear stored credentials")
		}
	}
	c.log.Info().Msg("session invalidated by backend")
	c.signal.Emit()
}

// readAPIError builds an *APIError from a non-2xx response. The backend
// reports {"message": ..., "code": ...}; older endpoints use {"error": ...}.
func readAPIError(resp *http.Response) *APIError {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if gjson.ValidBytes(respBody) {
		parsed := gjson.ParseBytes(respBody)
		apiErr.Message = parsed.Get("message").String()
		if apiErr.Message == "" {
			apiErr.Message = parsed.Get("error").String()
		}
		apiErr.Code = parsed.Get("code").String()
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(respBody))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
