// Package apiclient is a typed client for the remote agent API.
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
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
	"github.com/capitalize-ai/agent-dashboard/pkg/metrics"
)

// Header names sent on every call.
const (
	HeaderAPIKey    = "X-API-Key"
	HeaderTenantID  = "X-Tenant-Id"
	HeaderRequestID = "X-Request-Id"
)

// Client calls the agent API with the credentials of one ClientConfig.
type Client struct {
	cfg        model.ClientConfig
	httpClient *http.Client
	timeout    time.Duration
	logger     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each call. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.Named("apiclient")
		}
	}
}

// New creates a client for cfg. The default transport is traced and has no
// timeout.
func New(cfg model.ClientConfig, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		// copy so a shared client is never modified
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Config returns the configuration the client was built with.
func (c *Client) Config() model.ClientConfig {
	return c.cfg
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	base := strings.TrimSpace(c.cfg.BaseURL)
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q", base)
	}
	// path is already escaped; keep RawPath so escaped segments survive.
	raw := strings.TrimRight(u.EscapedPath(), "/") + path
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", raw, err)
	}
	u.Path = unescaped
	u.RawPath = raw
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// doJSON sends reqBody as JSON and decodes a 2xx response into out.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, reqBody any, out any) error {
	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, op, method, path, query, body, "application/json", out)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target, err := c.endpoint(path, query)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(HeaderAPIKey, c.cfg.APIKey)
	req.Header.Set(HeaderTenantID, c.cfg.TenantID)
	req.Header.Set(HeaderRequestID, requestID)

	log := c.logger.With(
		zap.String("operation", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(op, "error", time.Since(start).Seconds())
		log.Warn("agent api call failed", zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	metrics.RecordAPICall(op, metrics.StatusClass(resp.StatusCode), duration.Seconds())
	if err != nil {
		log.Warn("failed to read agent api response", zap.Error(err))
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	log.Debug("agent api call",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Operation: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) tenantPath(suffix string) string {
	return "/tenants/" + url.PathEscape(c.cfg.TenantID) + suffix
}
