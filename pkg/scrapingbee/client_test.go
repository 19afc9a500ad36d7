package scrapingbee

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key123", r.URL.Query().Get("api_key"))
		assert.Equal(t, "https://example.com", r.URL.Query().Get("url"))
		assert.Equal(t, "true", r.URL.Query().Get("render_js"))
		assert.Equal(t, ".results", r.URL.Query().Get("wait_for"))
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := NewClient("key123", WithBaseURL(srv.URL))
	html, err := c.Fetch(context.Background(), Request{
		URL:          "https://example.com",
		RenderJS:     true,
		WaitSelector: ".results",
	})
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", html)
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	c := NewClient("nope", WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), Request{URL: "https://example.com"})
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestFetch_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL))
	html, err := c.Fetch(context.Background(), Request{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", html)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_PremiumProxyParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("premium_proxy"))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient("key", WithBaseURL(srv.URL))
	_, err := c.Fetch(context.Background(), Request{URL: "https://example.com", PremiumProxy: true})
	require.NoError(t, err)
}
