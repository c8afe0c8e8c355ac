// Package httpclient provides HTTP client functionality for calls to the
// remote course-registration service.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize is the maximum allowed response size (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	// UserAgent is the user agent string for HTTP requests
	UserAgent = "coursereg-client/1.0"

	// maxGetAttempts bounds the retry loop for idempotent GETs
	maxGetAttempts = 3
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

// Client is an interface for HTTP operations against the course service
type Client interface {
	// Get performs an HTTP GET request and returns the response body.
	// Transient transport failures are retried; HTTP status errors are not.
	Get(ctx context.Context, url string) ([]byte, error)

	// Do performs a request with the given method and JSON body and
	// returns the response body. Not retried.
	Do(ctx context.Context, method, url string, body []byte) ([]byte, error)
}

// DefaultClient is the default HTTP client implementation
type DefaultClient struct {
	client  *http.Client
	timeout time.Duration
	token   func() string
}

// Option configures a DefaultClient
type Option func(*DefaultClient)

// WithBearerToken sets a provider for the bearer credential attached to
// every request. An empty return value leaves the request unauthenticated.
func WithBearerToken(token func() string) Option {
	return func(c *DefaultClient) {
		c.token = token
	}
}

// NewDefaultClient creates a new default HTTP client with the specified timeout.
// If timeout is 0, uses DefaultTimeout.
func NewDefaultClient(timeout time.Duration, opts ...Option) Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	c := &DefaultClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request with retry on transport failures
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	operation := func() ([]byte, error) {
		body, err := c.execute(ctx, http.MethodGet, url, nil)
		if err != nil {
			// HTTP status errors carry a definitive answer from the
			// service and must not be retried.
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return body, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxGetAttempts),
	)
}

// Do performs a one-shot request with the given method and JSON body
func (c *DefaultClient) Do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	return c.execute(ctx, method, url, body)
}

func (c *DefaultClient) execute(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
	}

	if resp.ContentLength > MaxResponseSize {
		return nil, fmt.Errorf("response size %d bytes exceeds maximum allowed size of %d bytes",
			resp.ContentLength, MaxResponseSize)
	}

	// Read response body with size limit; +1 to detect if the limit is exceeded
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, fmt.Errorf("response size exceeds maximum allowed size of %d bytes", MaxResponseSize)
	}

	return data, nil
}
