package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Config is passed to NewClient; there is no package level API state.
type Config struct {
	URL          string        `envconfig:"GATEWAY_URL"`
	APIKey       string        `envconfig:"GATEWAY_API_KEY"`
	IgnoreSSL    bool          `envconfig:"GATEWAY_IGNORE_SSL" default:"false"`
	Timeout      time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"30s"`
	MaxRetries   int           `envconfig:"GATEWAY_MAX_RETRIES" default:"3"`
	RetryBackoff time.Duration `envconfig:"GATEWAY_RETRY_BACKOFF" default:"200ms"`
}

// Recorder receives call outcomes; metrics.GatewayMetrics implements it.
type Recorder interface {
	RecordRequest(method string, success bool)
	RecordRetry()
	SetBreakerState(state int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(string, bool) {}
func (nopRecorder) RecordRetry() {}
func (nopRecorder) SetBreakerState(int) {}

const apiKeyHeader = "X-API-KEY"

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: unexpected status code %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Client talks to the wallet gateway REST API.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	recorder   Recorder
	logger     logrus.FieldLogger
}

func NewClient(cfg Config, recorder Recorder, logger logrus.FieldLogger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("gateway: url is required")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.IgnoreSSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- opt-in for self-hosted gateways
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		recorder: recorder,
		logger:   logger.WithField("component", "gateway"),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gateway",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.retryable()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.Warnf("circuit breaker [%s] %s -> %s", name, from, to)
			c.recorder.SetBreakerState(int(to))
		},
	})

	return c, nil
}

// NodeURL is the gateway's JSON-RPC passthrough for chain.
func (c *Client) NodeURL(chain string) string {
	return c.baseURL + c.nodePath(chain)
}

func (c *Client) nodePath(chain string) string {
	return fmt.Sprintf("/v1/node/%s/%s", esc(chain), esc(c.apiKey))
}

// call performs one API call through the circuit breaker, retrying transient
// failures, and decodes the JSON answer into T.
func call[T any](ctx context.Context, c *Client, name, method, path string, body any) (T, error) {
	return invoke[T](ctx, c, name, method, path, body, c.maxRetries)
}

// callOnce is call without retries, for requests that are not idempotent:
// a retried submit after a lost response could move funds twice.
func callOnce[T any](ctx context.Context, c *Client, name, method, path string, body any) (T, error) {
	return invoke[T](ctx, c, name, method, path, body, 0)
}

func invoke[T any](ctx context.Context, c *Client, name, method, path string, body any, maxRetries int) (T, error) {
	var zero T

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doWithRetry(ctx, method, path, body, maxRetries)
	})
	c.recorder.RecordRequest(name, err == nil)
	if err != nil {
		return zero, fmt.Errorf("gateway: %s failed: %w", name, err)
	}

	var res T
	err = json.Unmarshal(raw.([]byte), &res)
	if err != nil {
		return zero, fmt.Errorf("gateway: failed to decode %s response: %w", name, err)
	}
	return res, nil
}

func (c *Client) doWithRetry(ctx context.Context, method, path string, body any, maxRetries int) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.recorder.RecordRetry()
			err := sleepWithContext(ctx, exponentialWithJitter(c.backoff, attempt-1))
			if err != nil {
				return nil, err
			}
		}

		res, err := c.do(ctx, method, path, payload, requestID)
		if err == nil {
			return res, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}

		c.logger.WithFields(logrus.Fields{
			"path":       path,
			"attempt":    attempt + 1,
			"request_id": requestID,
		}).Debugf("gateway call failed: %v", err)
	}

	return nil, lastErr
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, requestID string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if len(data) == 0 {
		return []byte("null"), nil
	}
	return data, nil
}
