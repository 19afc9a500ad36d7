// Package mailboxlayer provides a client for the MailboxLayer email
// verification API.
package mailboxlayer

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

// Client defines the verification operation.
type Client interface {
	// Verify reports whether an email address passes format and SMTP checks.
	Verify(ctx context.Context, email string) (bool, error)
}

// StatusError is returned for non-200 upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mailboxlayer: status %d: %s", e.StatusCode, e.Body)
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
	accessKey string
	baseURL   string
	http      *http.Client
}

// NewClient creates a MailboxLayer client.
func NewClient(accessKey string, opts ...Option) Client {
	c := &httpClient{
		accessKey: accessKey,
		baseURL:   "https://apilayer.net/api",
		http:      &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type checkResponse struct {
	FormatValid bool `json:"format_valid"`
	SMTPCheck   bool `json:"smtp_check"`
}

func (c *httpClient) Verify(ctx context.Context, email string) (bool, error) {
	params := url.Values{}
	params.Set("access_key", c.accessKey)
	params.Set("email", email)
	params.Set("smtp", "1")
	params.Set("format", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/check?"+params.Encode(), nil)
	if err != nil {
		return false, eris.Wrap(err, "mailboxlayer: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, eris.Wrap(err, "mailboxlayer: check")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, eris.Wrap(err, "mailboxlayer: read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return false, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var parsed checkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false, eris.Wrap(err, "mailboxlayer: decode response")
	}
	return parsed.FormatValid && parsed.SMTPCheck, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
