package httpclient_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/coursereg/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestNewDefaultClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{
			name:    "create client with custom timeout",
			timeout: 5 * time.Second,
		},
		{
			name:    "create client with zero timeout uses default",
			timeout: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(tt.timeout)

			require.NotNil(t, client, "client should not be nil")
		})
	}
}

func TestDefaultClient_Get_SuccessfulRequests(t *testing.T) {
	t.Parallel()

	var receivedHeaders http.Header

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message": "success"}`))
	}))
	defer mockServer.Close()

	client := httpclient.NewDefaultClient(30 * time.Second)

	data, err := client.Get(context.Background(), mockServer.URL)

	require.NoError(t, err)
	assert.Equal(t, []byte(`{"message": "success"}`), data)
	assert.Equal(t, httpclient.UserAgent, receivedHeaders.Get("User-Agent"))
	assert.Equal(t, "application/json", receivedHeaders.Get("Accept"))

	// Every request carries a fresh request id
	_, err = uuid.Parse(receivedHeaders.Get("X-Request-ID"))
	assert.NoError(t, err, "X-Request-ID should be a valid UUID")
}

func TestDefaultClient_Get_HTTPErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		errorContains string
	}{
		{
			name:          "404 Not Found",
			statusCode:    http.StatusNotFound,
			errorContains: "HTTP 404",
		},
		{
			name:          "500 Internal Server Error",
			statusCode:    http.StatusInternalServerError,
			errorContains: "HTTP 500",
		},
		{
			name:          "401 Unauthorized",
			statusCode:    http.StatusUnauthorized,
			errorContains: "HTTP 401",
		},
		{
			name:          "429 Too Many Requests",
			statusCode:    http.StatusTooManyRequests,
			errorContains: "HTTP 429",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var requests atomic.Int32
			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				requests.Add(1)
				w.WriteHeader(tt.statusCode)
			}))
			defer mockServer.Close()

			client := httpclient.NewDefaultClient(30 * time.Second)

			_, err := client.Get(context.Background(), mockServer.URL)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)

			var httpErr *httpclient.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)

			// A definitive status answer must not be retried
			assert.Equal(t, int32(1), requests.Load())
		})
	}
}

func TestDefaultClient_Get_RetriesTransportFailures(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) == 1 {
			// Drop the first connection mid-request
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("recovered"))
	}))
	defer mockServer.Close()

	client := httpclient.NewDefaultClient(30 * time.Second)

	data, err := client.Get(context.Background(), mockServer.URL)

	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), data)
	assert.Equal(t, int32(2), requests.Load())
}

func TestDefaultClient_Get_NetworkErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		url           string
		errorContains string
	}{
		{
			name:          "invalid URL scheme",
			url:           "://invalid-url",
			errorContains: "failed to create request",
		},
		{
			name:          "invalid URL format",
			url:           "not-a-valid-url",
			errorContains: "failed to execute request",
		},
		{
			name:          "empty URL",
			url:           "",
			errorContains: "failed to execute request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(30 * time.Second)

			_, err := client.Get(context.Background(), tt.url)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestDefaultClient_Get_ContextCancellation(t *testing.T) {
	t.Parallel()

	t.Run("should respect context cancellation", func(t *testing.T) {
		t.Parallel()

		mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(2 * time.Second)
			w.WriteHeader(http.StatusOK)
		}))
		defer mockServer.Close()

		client := httpclient.NewDefaultClient(30 * time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		_, err := client.Get(ctx, mockServer.URL)

		require.Error(t, err)
	})

	t.Run("should succeed with sufficient timeout", func(t *testing.T) {
		t.Parallel()

		mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("success"))
		}))
		defer mockServer.Close()

		client := httpclient.NewDefaultClient(30 * time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := client.Get(ctx, mockServer.URL)

		require.NoError(t, err)
		assert.Equal(t, []byte("success"), data)
	})
}

func TestDefaultClient_Get_SizeLimitExceeded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setupServer func() *httptest.Server
	}{
		{
			name: "reject response exceeding the limit via Content-Length",
			setupServer: func() *httptest.Server {
				return newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.Header().Set("Content-Length", fmt.Sprintf("%d", httpclient.MaxResponseSize+1))
					w.WriteHeader(http.StatusOK)
				}))
			},
		},
		{
			name: "reject response exceeding the limit by actual content",
			setupServer: func() *httptest.Server {
				return newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusOK)
					chunk := make([]byte, 1024*1024)
					for i := 0; i < 11; i++ {
						_, _ = w.Write(chunk)
					}
				}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockServer := tt.setupServer()
			defer mockServer.Close()

			client := httpclient.NewDefaultClient(30 * time.Second)

			_, err := client.Get(context.Background(), mockServer.URL)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "exceeds maximum allowed size")
		})
	}
}

func TestDefaultClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("posts the JSON body with content type", func(t *testing.T) {
		t.Parallel()

		var receivedMethod, receivedContentType, receivedBody string

		mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedMethod = r.Method
			receivedContentType = r.Header.Get("Content-Type")
			buf, _ := io.ReadAll(r.Body)
			receivedBody = string(buf)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"status":201}`))
		}))
		defer mockServer.Close()

		client := httpclient.NewDefaultClient(30 * time.Second)

		data, err := client.Do(context.Background(), http.MethodPost, mockServer.URL, []byte(`{"course_id":7}`))

		require.NoError(t, err)
		assert.Equal(t, []byte(`{"status":201}`), data)
		assert.Equal(t, http.MethodPost, receivedMethod)
		assert.Equal(t, "application/json", receivedContentType)
		assert.JSONEq(t, `{"course_id":7}`, receivedBody)
	})

	t.Run("omits content type without a body", func(t *testing.T) {
		t.Parallel()

		var receivedContentType string

		mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedContentType = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusOK)
		}))
		defer mockServer.Close()

		client := httpclient.NewDefaultClient(30 * time.Second)

		_, err := client.Do(context.Background(), http.MethodDelete, mockServer.URL, nil)

		require.NoError(t, err)
		assert.Empty(t, receivedContentType)
	})

	t.Run("does not retry failures", func(t *testing.T) {
		t.Parallel()

		var requests atomic.Int32
		mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusConflict)
		}))
		defer mockServer.Close()

		client := httpclient.NewDefaultClient(30 * time.Second)

		_, err := client.Do(context.Background(), http.MethodPost, mockServer.URL, []byte("{}"))

		require.Error(t, err)
		assert.Equal(t, int32(1), requests.Load())
	})
}

func TestDefaultClient_BearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		token      string
		wantHeader string
	}{
		{
			name:       "token attached as bearer credential",
			token:      "secret-token",
			wantHeader: "Bearer secret-token",
		},
		{
			name:       "empty token leaves the request unauthenticated",
			token:      "",
			wantHeader: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var receivedAuth string

			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				receivedAuth = r.Header.Get("Authorization")
				w.WriteHeader(http.StatusOK)
			}))
			defer mockServer.Close()

			client := httpclient.NewDefaultClient(30*time.Second,
				httpclient.WithBearerToken(func() string { return tt.token }))

			_, err := client.Get(context.Background(), mockServer.URL)

			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, receivedAuth)
		})
	}
}
