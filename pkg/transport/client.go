// Package transport issues the one network call a submission is allowed. It
// carries no retry, no batching, and no queuing; admission control stays with
// the caller's isSubmitting flag, not here.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-genforms/pkg/feature"
	"github.com/goliatone/go-genforms/pkg/payload"
)

// Option customises the client configuration.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Timeouts stay at the
// platform default unless the caller configures one here.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTokenSource attaches a bearer token source consulted on every call.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithLogger sets the diagnostic logger. Transport failures are recorded here
// verbatim; the user only ever sees the mapped message from UserMessage.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the content-generation backend. One operation issues exactly
// one request; callers settle their own submission state from the result.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

// New constructs a Client for the API root, for example
// "http://localhost:8000/api".
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("transport: base url is required")
	}
	c := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Generate posts a normalized payload to the feature's fixed backend path and
// decodes the JSON response body. It returns a *StatusError for non-success
// statuses and wraps network failures; neither triggers a retry.
func (c *Client) Generate(ctx context.Context, desc feature.Descriptor, p payload.Payload) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("transport: context is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+desc.Path, bytes.NewReader(p.Body))
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", p.ContentType)
	return c.do(req, desc.ID)
}

// Fetch issues a bodyless GET against the descriptor's path. Used for the
// dashboard stats descriptor.
func (c *Client) Fetch(ctx context.Context, desc feature.Descriptor) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("transport: context is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+desc.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	return c.do(req, desc.ID)
}

// Health probes a feature router's health endpoint.
func (c *Client) Health(ctx context.Context, desc feature.Descriptor) error {
	prefix := desc.Path
	if idx := strings.LastIndex(prefix, "/"); idx > 0 {
		prefix = prefix[:idx]
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+prefix+"/health", nil)
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	_, err = c.do(req, desc.ID)
	return err
}

func (c *Client) do(req *http.Request, operation string) (map[string]any, error) {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if err := c.attachToken(req); err != nil {
		return nil, err
	}

	logger := c.logger.With(
		zap.String("operation", operation),
		zap.String("request_id", requestID),
		zap.String("url", req.URL.String()),
	)
	logger.Debug("request issued", zap.String("method", req.Method))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("request failed", zap.Error(err))
		return nil, fmt.Errorf("transport: %s: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("read response failed", zap.Error(err))
		return nil, fmt.Errorf("transport: %s: read response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Status: resp.StatusCode, Detail: extractDetail(body)}
		logger.Error("backend rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", statusErr.Detail),
		)
		return nil, statusErr
	}

	decoded := make(map[string]any)
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &decoded); err != nil {
			logger.Error("decode response failed", zap.Error(err))
			return nil, fmt.Errorf("transport: %s: decode response: %w", operation, err)
		}
	}
	logger.Debug("request settled", zap.Int("status", resp.StatusCode))
	return decoded, nil
}

func (c *Client) attachToken(req *http.Request) error {
	if c.tokens == nil || req.Header.Get("Authorization") != "" {
		return nil
	}
	token, err := c.tokens.Token(req.Context())
	if err != nil {
		return fmt.Errorf("transport: resolve token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// extractDetail pulls the structured message out of an error body when the
// backend supplied one.
func extractDetail(body []byte) string {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return strings.TrimSpace(envelope.Detail)
}
