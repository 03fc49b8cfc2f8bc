package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	defaultTimeout  = 30 * time.Second
)

// BaseClient performs HTTP requests against the activities backend. The
// sub-clients share one BaseClient.
type BaseClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     logr.Logger
}

// ClientOption configures a BaseClient.
type ClientOption func(*BaseClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *BaseClient) {
		c.HTTPClient = hc
	}
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *BaseClient) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logr.Logger) ClientOption {
	return func(c *BaseClient) {
		c.Logger = l
	}
}

// NewBaseClient creates a BaseClient for baseURL.
func NewBaseClient(baseURL string, opts ...ClientOption) *BaseClient {
	c := &BaseClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		Logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get sends a GET request. token is sent as a bearer credential when non-empty.
func (c *BaseClient) Get(ctx context.Context, path, token string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, "", token)
}

// PostForm sends a POST with an application/x-www-form-urlencoded body.
func (c *BaseClient) PostForm(ctx context.Context, path string, form string, token string) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, strings.NewReader(form), "application/x-www-form-urlencoded", token)
}

// Post sends a POST without a body.
func (c *BaseClient) Post(ctx context.Context, path, token string) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, "", token)
}

// Delete sends a DELETE request.
func (c *BaseClient) Delete(ctx context.Context, path, token string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "", token)
}

func (c *BaseClient) do(ctx context.Context, method, path string, body io.Reader, contentType, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build %s %s: %w", ErrTransport, method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.V(1).Info("request failed", "method", method, "path", path, "requestID", reqID, "error", err.Error())
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	c.Logger.V(1).Info("request done", "method", method, "path", path, "requestID", reqID,
		"status", resp.StatusCode, "duration", time.Since(start).String())
	return resp, nil
}

// DecodeResponse closes resp.Body and decodes it into target. A non-2xx
// status yields an *APIError carrying the backend's detail. When that body is
// not JSON the *APIError is also marked as a transport failure, as is a 2xx
// body that cannot be decoded.
func DecodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     resp.Request.Method,
			Path:       resp.Request.URL.Path,
		}
		var body struct {
			Detail json.RawMessage `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("%w: unreadable error body: %w", ErrTransport, apiErr)
		}
		apiErr.Detail = detailText(body.Detail)
		return apiErr
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrTransport, resp.Request.URL.Path, err)
	}
	return nil
}

// detailText extracts a display string from a detail field, which FastAPI
// sends either as a string or as a list of validation errors.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// ClientSet groups the sub-clients for one backend.
type ClientSet struct {
	Auth     Auth
	User     User
	Activity Activity
}

// New creates a ClientSet for baseURL.
func New(baseURL string, opts ...ClientOption) *ClientSet {
	base := NewBaseClient(baseURL, opts...)
	return &ClientSet{
		Auth:     NewAuthClient(base),
		User:     NewUserClient(base),
		Activity: NewActivityClient(base),
	}
}
