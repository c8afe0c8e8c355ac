package httpclient_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/coursereg/internal/httpclient"
)

func TestHTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		url           string
		message       string
		expectedError string
	}{
		{
			name:          "create HTTPError with all fields",
			statusCode:    404,
			url:           "http://example.com",
			message:       "Not Found",
			expectedError: "HTTP 404 for URL http://example.com: Not Found",
		},
		{
			name:          "format error message correctly for 500",
			statusCode:    500,
			url:           "http://api.example.com/courses",
			message:       "Internal Server Error",
			expectedError: "HTTP 500 for URL http://api.example.com/courses: Internal Server Error",
		},
		{
			name:          "handle empty message",
			statusCode:    404,
			url:           "http://example.com",
			message:       "",
			expectedError: "HTTP 404 for URL http://example.com: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := httpclient.NewHTTPError(tt.statusCode, tt.url, tt.message)

			require.Error(t, err)
			assert.Equal(t, tt.expectedError, err.Error())
		})
	}
}

func TestHTTPError_UnwrapsThroughWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("failed to fetch courses: %w",
		httpclient.NewHTTPError(409, "http://example.com/courses/7/registrations", "409 Conflict"))

	var httpErr *httpclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 409, httpErr.StatusCode)
}

func TestHTTPError_ErrorInterface(t *testing.T) {
	t.Parallel()

	err := httpclient.NewHTTPError(404, "http://example.com", "Not Found")

	var errInterface error = err
	require.NotNil(t, errInterface)
	assert.NotEmpty(t, errInterface.Error())
}
