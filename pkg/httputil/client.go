package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/muchen/fenglin/pkg/logger"
)

// Client is an HTTP client wrapper with retry, rate limiting and logging
// SSOT: 所有对外 HTTP 请求都经过这个客户端
type Client struct {
	httpClient  *http.Client
	logger      *logger.Logger
	retryConfig RetryConfig
	limiter     *rate.Limiter
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Enabled      bool
}

// New creates a new HTTP client
func New(log *logger.Logger, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
		retryConfig: RetryConfig{
			MaxRetries:   3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     10 * time.Second,
			Enabled:      true,
		},
	}
}

// WithRateLimit sets a client-side rate limiter (qps + burst)
func (c *Client) WithRateLimit(qps float64, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(qps), burst)
	return c
}

// WithRetry configures retry behavior
func (c *Client) WithRetry(maxRetries int, initialDelay time.Duration) *Client {
	c.retryConfig.MaxRetries = maxRetries
	c.retryConfig.InitialDelay = initialDelay
	c.retryConfig.Enabled = true
	return c
}

// DisableRetry disables automatic retry
func (c *Client) DisableRetry() *Client {
	c.retryConfig.Enabled = false
	return c
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	return c.Do(req)
}

// GetWithHeaders performs a GET request with extra headers
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.Do(req)
}

// GetJSON performs a GET request and decodes the JSON response body
func (c *Client) GetJSON(ctx context.Context, url string, dest interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body failed: %w", err)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode JSON failed: %w", err)
	}

	return nil
}

// Do executes the request with rate limiting, retry and logging
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	method := req.Method

	// Client-side rate limit
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
	}).Debug("HTTP request started")

	startTime := time.Now()

	var resp *http.Response
	var err error

	attempts := 1
	if c.retryConfig.Enabled {
		attempts = c.retryConfig.MaxRetries + 1
	}

	delay := c.retryConfig.InitialDelay
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err = c.httpClient.Do(req)

		// Retryable: transport error or 5xx
		retryable := err != nil || resp.StatusCode >= http.StatusInternalServerError
		if !retryable || attempt == attempts-1 {
			break
		}

		if resp != nil {
			resp.Body.Close()
		}

		c.logger.WithFields(map[string]interface{}{
			"method":  method,
			"url":     url,
			"attempt": attempt + 1,
		}).Warn("HTTP request failed, retrying")

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.retryConfig.MaxDelay {
			delay = c.retryConfig.MaxDelay
		}
	}

	if err != nil {
		return nil, fmt.Errorf("HTTP %s %s failed: %w", method, url, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"method":   method,
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(startTime).Milliseconds(),
	}).Debug("HTTP request completed")

	return resp, nil
}
