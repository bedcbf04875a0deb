// Package api is a thin JSON-over-HTTP client shared by the data providers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"trading-assistant/internal/logger"
)

// Client represents an HTTP client with common configuration and utilities
type Client struct {
	rc         *resty.Client
	limiter    *RateLimiter
	useLogging bool
}

// logDebug logs debug messages using the global logger
func (c *Client) logDebug(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Debug(ctx, msg, args...)
	}
}

func (c *Client) logWarn(ctx context.Context, msg string, args ...any) {
	if c.useLogging {
		logger.Warn(ctx, msg, args...)
	}
}

// ClientOption configures the API client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.rc.SetTimeout(timeout)
	}
}

// WithBaseURL sets the base URL for all requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.rc.SetBaseURL(baseURL)
	}
}

// WithHeader sets a default header for all requests
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.rc.SetHeader(key, value)
	}
}

// WithLogging enables logging for the API client
func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.useLogging = enabled
	}
}

// WithRetry retries transport failures and 429/5xx responses with
// exponential backoff between InitialWait and MaxWait.
func WithRetry(cfg *RetryConfig) ClientOption {
	return func(c *Client) {
		if cfg == nil {
			cfg = DefaultRetryConfig()
		}
		retries := cfg.MaxAttempts - 1
		if retries < 0 {
			retries = 0
		}
		c.rc.SetRetryCount(retries).
			SetRetryWaitTime(cfg.InitialWait).
			SetRetryMaxWaitTime(cfg.MaxWait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
			})
	}
}

// NewClient creates a new API client with the given options
func NewClient(opts ...ClientOption) *Client {
	client := &Client{
		rc: resty.New().
			SetTimeout(30 * time.Second).
			SetJSONMarshaler(json.Marshal).
			SetJSONUnmarshaler(json.Unmarshal),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// GET performs a GET request with the given query parameters.
func (c *Client) GET(ctx context.Context, path string, query map[string]string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		c.logWarn(ctx, "HTTP request failed", "method", http.MethodGet, "path", path, "error", err)
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	c.logDebug(ctx, "HTTP Response",
		"method", http.MethodGet,
		"path", path,
		"status", resp.StatusCode(),
		"duration", time.Since(start),
		"bodySize", len(resp.Body()))

	if resp.StatusCode() >= 400 {
		c.logWarn(ctx, "HTTP error response",
			"method", http.MethodGet,
			"path", path,
			"status", resp.StatusCode(),
			"body", resp.String())
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Headers:    resp.Header(),
	}, nil
}

// StatusError is returned for 4xx and 5xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// ParseJSON parses the response body as JSON into the given struct
func (r *Response) ParseJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}

// String returns the response body as a string
func (r *Response) String() string {
	return string(r.Body)
}

// BrowserHeaders returns common browser headers to mimic a real browser request
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     5 * time.Second,
	}
}
