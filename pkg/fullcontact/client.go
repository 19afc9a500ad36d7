// Package fullcontact provides a client for the FullContact person
// enrichment API.
package fullcontact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when FullContact has no record for a person.
var ErrNotFound = eris.New("fullcontact: person not found")

// Person identifies who to enrich.
type Person struct {
	FullName string `json:"fullName,omitempty"`
	Company  string `json:"company,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Client defines the person enrichment operation.
type Client interface {
	// SocialProfiles returns social network names mapped to profile URLs for
	// a person. Returns ErrNotFound when no record exists.
	SocialProfiles(ctx context.Context, person Person) (map[string]string, error)
}

// StatusError is returned for unexpected upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fullcontact: status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a FullContact client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.fullcontact.com/v3",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type enrichResponse struct {
	Details struct {
		Profiles map[string]struct {
			URL string `json:"url"`
		} `json:"profiles"`
	} `json:"details"`
}

func (c *httpClient) SocialProfiles(ctx context.Context, person Person) (map[string]string, error) {
	payload, err := json.Marshal(person)
	if err != nil {
		return nil, eris.Wrap(err, "fullcontact: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/person.enrich", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "fullcontact: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fullcontact: person enrich")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "fullcontact: read response body")
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var parsed enrichResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "fullcontact: decode response")
	}

	profiles := make(map[string]string, len(parsed.Details.Profiles))
	for network, p := range parsed.Details.Profiles {
		if p.URL != "" {
			profiles[network] = p.URL
		}
	}
	return profiles, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
