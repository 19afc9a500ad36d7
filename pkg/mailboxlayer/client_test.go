package mailboxlayer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"valid and deliverable", `{"format_valid":true,"smtp_check":true}`, true},
		{"valid format only", `{"format_valid":true,"smtp_check":false}`, false},
		{"invalid format", `{"format_valid":false,"smtp_check":false}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/check", r.URL.Path)
				assert.Equal(t, "jane@acme.com", r.URL.Query().Get("email"))
				assert.Equal(t, "1", r.URL.Query().Get("smtp"))
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("k", WithBaseURL(srv.URL))
			ok, err := c.Verify(context.Background(), "jane@acme.com")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestVerify_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Verify(context.Background(), "jane@acme.com")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}
