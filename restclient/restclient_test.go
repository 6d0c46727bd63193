package restclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/node", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"product_version":"3.2.1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Get(context.Background(), "/api/v1/node")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.String(), "3.2.1")
}

func TestDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"product_version":"3.2.1","unknown_field":true}`))
	}))
	defer srv.Close()

	var out struct {
		ProductVersion string `json:"product_version"`
	}

	c := New(srv.URL)
	resp, err := c.Get(context.Background(), "/api/v1/node")
	require.NoError(t, err)
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "3.2.1", out.ProductVersion)
}

func TestDecodeShapeMismatch(t *testing.T) {
	resp := &Response{Body: []byte(`{"count":"not-a-number"}`)}

	var out struct {
		Count int `json:"count"`
	}
	err := resp.Decode(&out)
	assert.Error(t, err)
}

func TestNotFoundCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error_message":"transport zone does not exist"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Get(context.Background(), "/api/v1/transport-zones/tz-404")
	require.Error(t, err)

	var apiErr *ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "transport zone does not exist")
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "transport zone does not exist")
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL)
	_, err := c.Get(context.Background(), "/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestTimeoutIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := c.Get(context.Background(), "/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestInsecureTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	// certificate validation rejects the self-signed server
	c := New(srv.URL)
	_, err := c.Get(context.Background(), "/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))

	// the insecure flag bypasses validation
	c = New(srv.URL, WithInsecure())
	resp, err := c.Get(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.String())
}

func TestBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("authorized"))
	}))
	defer srv.Close()

	c := New(srv.URL, WithBasicAuth("admin", "secret"))
	resp, err := c.Get(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "authorized", resp.String())

	c = New(srv.URL, WithBasicAuth("admin", "wrong"))
	_, err = c.Get(context.Background(), "/")
	var apiErr *ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClientAndRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-123", r.Header.Get("X-Xsrf-Token"))
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(srv.URL, WithHeader("X-Xsrf-Token", "token-123"))

	header := http.Header{}
	header.Set("Content-Type", "application/xml")
	_, err := c.Do(context.Background(), http.MethodPost, "/api", header, strings.NewReader("<config/>"))
	require.NoError(t, err)
}
