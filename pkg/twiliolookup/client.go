// Package twiliolookup provides a client for the Twilio Lookup phone
// validation API.
package twiliolookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// ErrInvalidNumber is returned when Twilio cannot resolve a phone number.
var ErrInvalidNumber = eris.New("twiliolookup: invalid phone number")

// Client defines the lookup operation.
type Client interface {
	// Lookup validates a phone number and returns its E.164 form. Returns
	// ErrInvalidNumber for numbers Twilio rejects.
	Lookup(ctx context.Context, phone string) (string, error)
}

// StatusError is returned for unexpected upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("twiliolookup: status %d: %s", e.StatusCode, e.Body)
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
	accountSID string
	authToken  string
	baseURL    string
	http       *http.Client
}

// NewClient creates a Twilio Lookup client.
func NewClient(accountSID, authToken string, opts ...Option) Client {
	c := &httpClient{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    "https://lookups.twilio.com/v1",
		http:       &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type lookupResponse struct {
	PhoneNumber string `json:"phone_number"`
}

func (c *httpClient) Lookup(ctx context.Context, phone string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/PhoneNumbers/"+url.PathEscape(phone), nil)
	if err != nil {
		return "", eris.Wrap(err, "twiliolookup: create request")
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "twiliolookup: lookup")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "twiliolookup: read response body")
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrInvalidNumber
	default:
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", eris.Wrap(err, "twiliolookup: decode response")
	}
	if parsed.PhoneNumber == "" {
		return "", ErrInvalidNumber
	}
	return parsed.PhoneNumber, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
