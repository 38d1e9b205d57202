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

	"github.com/hashicorp/go-retryablehttp"
	"github.com/yildizm/bfhl/internal/bfhl"
	"github.com/yildizm/bfhl/internal/logger"
)

// Client posts payloads to the remote service
type Client struct {
	config *Config
	http   *retryablehttp.Client
	log    *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithLogger sets the logger used for request tracing
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHTTPClient replaces the underlying transport client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http.HTTPClient = hc
		}
	}
}

// New creates a client. A nil config uses the defaults.
func New(config *Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = config.MaxRetries
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	// Hand back the final response so status codes can be reported
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		config: config,
		http:   rc,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	rc.HTTPClient.Timeout = config.Timeout
	rc.Logger = &leveledLogger{log: c.log}

	return c, nil
}

// Endpoint returns the URL payloads are posted to
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// Submit posts the payload once (plus configured retries) and returns the
// decoded response. Every failure is a remote failure error.
func (c *Client) Submit(ctx context.Context, payload *bfhl.Payload) (*bfhl.Response, error) {
	if payload == nil {
		return nil, bfhl.NewRemoteFailureError("nil payload", nil)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, bfhl.NewRemoteFailureError("failed to marshal payload", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return nil, bfhl.NewRemoteFailureError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, bfhl.NewRemoteFailureError("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes))
	if err != nil {
		return nil, bfhl.NewRemoteFailureError("failed to read response", err)
	}

	c.log.DebugWithFields("response received", []logger.Field{
		logger.F("status", resp.StatusCode),
		logger.F("bytes", len(raw)),
		logger.Duration(time.Since(start)),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, bfhl.NewStatusError(resp.StatusCode, snippet(raw))
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && !json.Valid(raw) {
		return nil, bfhl.NewRemoteFailureError("response is not valid JSON", nil)
	}

	return &bfhl.Response{StatusCode: resp.StatusCode, Raw: json.RawMessage(raw)}, nil
}

// snippet shortens an error body for log output
func snippet(raw []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(raw))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// leveledLogger adapts the package logger to retryablehttp.LeveledLogger
type leveledLogger struct {
	log *logger.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.ErrorWithFields(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.InfoWithFields(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.DebugWithFields(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.WarnWithFields(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logger.F(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}
