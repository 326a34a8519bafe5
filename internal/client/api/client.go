// Package api is the JSON-over-HTTP client for the shelter REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/ShelterDesk/internal/failure"
	"github.com/atinyakov/ShelterDesk/internal/logger"
	"github.com/atinyakov/ShelterDesk/internal/models"
)

// DefaultBaseURL is where the API listens in local development.
const DefaultBaseURL = "http://localhost:5000"

// RequestIDHeader carries a per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// Payload is a write body. Form values are sent as strings, the way the API
// expects them from its web forms.
type Payload map[string]any

// Client talks to one API base URL.
type Client struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (15s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = logger.OrNop(log) }
}

// New returns a client for baseURL; an empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return nil, err
	}
	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// getList fetches a JSON array. Any non-2xx status is a network failure.
func getList[T any](ctx context.Context, c *Client, op, path string) ([]T, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, failure.NewNetwork(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failure.NewNetwork(op, fmt.Errorf("API error: %d", resp.StatusCode))
	}

	var out []T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, failure.NewNetwork(op, fmt.Errorf("invalid response: %w", err))
	}
	return out, nil
}

// write sends body and decodes the {success,message} envelope into out.
// The API answers 4xx and 5xx with the same envelope, so the status code
// is not inspected; only an undecodable body is a network failure.
func (c *Client) write(ctx context.Context, op, method, path string, body, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return failure.NewNetwork(op, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return failure.NewNetwork(op, fmt.Errorf("invalid response (status %d): %w", resp.StatusCode, err))
	}
	return nil
}

func (c *Client) result(ctx context.Context, op, method, path string, body any) (models.Result, error) {
	var res models.Result
	if err := c.write(ctx, op, method, path, body, &res); err != nil {
		return models.Result{}, err
	}
	return res, nil
}
