package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_RoundTrip(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL+"/", time.Second)
	require.NoError(t, err)
	assert.Equal(t, ts.URL, c.BaseURL())

	var out struct {
		Echo string `json:"echo"`
	}
	err = c.DoJSON(context.Background(), "post", "v1/echo", map[string]string{"X-Api-Key": "k", " ": "ignored"}, map[string]string{"msg": "hola"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "hola", out.Echo)
}

func TestDoJSON_Non2xxIsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(" invalid token \n"))
	}))
	defer ts.Close()

	c := New(0)
	err := c.DoJSON(context.Background(), http.MethodGet, ts.URL+"/x", nil, nil, nil)

	var he *HTTPError
	require.True(t, errors.As(err, &he), "expected *HTTPError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, he.StatusCode)
	assert.Equal(t, "invalid token", he.Body)
}

func TestDoJSON_EmptyBodyWithOut(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, 0)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, c.DoJSON(context.Background(), http.MethodDelete, "/thing", nil, nil, &out))
	assert.Nil(t, out)
}

func TestDoJSON_RelativePathNeedsBaseURL(t *testing.T) {
	c := New(time.Second)
	assert.Error(t, c.DoJSON(context.Background(), http.MethodGet, "/v1/x", nil, nil, nil))
	assert.Error(t, c.DoJSON(context.Background(), http.MethodGet, "  ", nil, nil, nil))

	var nilClient *Client
	assert.Error(t, nilClient.DoJSON(context.Background(), http.MethodGet, "https://example.com", nil, nil, nil))
}

func TestNewWithBaseURL_Invalid(t *testing.T) {
	_, err := NewWithBaseURL("not a url", time.Second)
	assert.Error(t, err)
}
