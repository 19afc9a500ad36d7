package clearbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/companies/find", r.URL.Path)
		assert.Equal(t, "acme.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"name":"Acme Inc",
			"domain":"acme.com",
			"category":{"industry":"Software"},
			"metrics":{"employees":250}
		}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test", WithBaseURL(srv.URL))
	company, err := c.Find(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", company.Name)
	assert.Equal(t, "Software", company.Industry)
	assert.Equal(t, 250, company.Employees)
}

func TestFind_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("sk_test", WithBaseURL(srv.URL))
	_, err := c.Find(context.Background(), "ghost.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFind_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))
	_, err := c.Find(context.Background(), "acme.com")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
