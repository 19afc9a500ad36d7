// Package clearbit provides a client for the Clearbit company enrichment
// API.
package clearbit

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

// ErrNotFound is returned when Clearbit has no record for a domain.
var ErrNotFound = eris.New("clearbit: company not found")

// Company is the subset of Clearbit's company record the pipeline uses.
type Company struct {
	Name      string
	Domain    string
	Industry  string
	Employees int
}

// Client defines the company enrichment operation.
type Client interface {
	// Find looks up a company by domain. Returns ErrNotFound when Clearbit
	// has no record.
	Find(ctx context.Context, domain string) (Company, error)
}

// StatusError is returned for unexpected upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("clearbit: status %d: %s", e.StatusCode, e.Body)
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

// NewClient creates a Clearbit client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://company.clearbit.com/v2",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type companyResponse struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Category struct {
		Industry string `json:"industry"`
	} `json:"category"`
	Metrics struct {
		Employees int `json:"employees"`
	} `json:"metrics"`
}

func (c *httpClient) Find(ctx context.Context, domain string) (Company, error) {
	params := url.Values{}
	params.Set("domain", domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/companies/find?"+params.Encode(), nil)
	if err != nil {
		return Company{}, eris.Wrap(err, "clearbit: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Company{}, eris.Wrap(err, "clearbit: find company")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Company{}, eris.Wrap(err, "clearbit: read response body")
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Company{}, ErrNotFound
	default:
		return Company{}, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var parsed companyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Company{}, eris.Wrap(err, "clearbit: decode response")
	}
	return Company{
		Name:      parsed.Name,
		Domain:    parsed.Domain,
		Industry:  parsed.Category.Industry,
		Employees: parsed.Metrics.Employees,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
