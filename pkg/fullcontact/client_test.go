package fullcontact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialProfiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/person.enrich", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Jane Doe", payload["fullName"])
		assert.Equal(t, "Acme Inc", payload["company"])

		w.Write([]byte(`{"details":{"profiles":{
			"twitter":{"url":"https://twitter.com/jane"},
			"github":{"url":"https://github.com/jane"},
			"empty":{"url":""}
		}}}`))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	profiles, err := c.SocialProfiles(context.Background(), Person{FullName: "Jane Doe", Company: "Acme Inc"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"twitter": "https://twitter.com/jane",
		"github":  "https://github.com/jane",
	}, profiles)
}

func TestSocialProfiles_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.SocialProfiles(context.Background(), Person{FullName: "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}
