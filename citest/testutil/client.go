package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TestClient provides HTTP client utilities for testing
type TestClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewTestClient creates a new test HTTP client
func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RequestOption configures HTTP requests
type RequestOption func(*http.Request)

// WithQuery adds query parameters
func WithQuery(params map[string]string) RequestOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		r.URL.RawQuery = q.Encode()
	}
}

// Response wraps HTTP response with helpers
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals response body into v
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// String returns response body as string
func (r *Response) String() string {
	return string(r.Body)
}

// IsSuccess returns true if status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs HTTP GET request
func (c *TestClient) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs HTTP POST request with JSON body
func (c *TestClient) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts...)
}

// Settings fetches the resolved settings of uri.
func (c *TestClient) Settings(ctx context.Context, uri string) (*Settings, error) {
	resp, err := c.Get(ctx, "/settings", WithQuery(map[string]string{"uri": uri}))
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("GET /settings: %d %s", resp.StatusCode, resp.String())
	}
	var s Settings
	if err := resp.JSON(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Excluded asks whether uri is excluded from checking.
func (c *TestClient) Excluded(ctx context.Context, uri string) (bool, error) {
	resp, err := c.Get(ctx, "/excluded", WithQuery(map[string]string{"uri": uri}))
	if err != nil {
		return false, err
	}
	if !resp.IsSuccess() {
		return false, fmt.Errorf("GET /excluded: %d %s", resp.StatusCode, resp.String())
	}
	var out struct {
		Excluded bool `json:"excluded"`
	}
	if err := resp.JSON(&out); err != nil {
		return false, err
	}
	return out.Excluded, nil
}

// Version returns the current cache version.
func (c *TestClient) Version(ctx context.Context) (uint64, error) {
	resp, err := c.Get(ctx, "/version")
	if err != nil {
		return 0, err
	}
	var out struct {
		Version uint64 `json:"version"`
	}
	if err := resp.JSON(&out); err != nil {
		return 0, err
	}
	return out.Version, nil
}

// do performs the actual HTTP request
func (c *TestClient) do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// Settings is the subset of resolved settings the suites inspect.
type Settings struct {
	Enabled        *bool    `json:"enabled"`
	Language       string   `json:"language"`
	Words          []string `json:"words"`
	IgnorePaths    []string `json:"ignorePaths"`
	AllowedSchemas []string `json:"allowedSchemas"`
}
