// Package scrapingbee provides a client for the ScrapingBee block-bypass
// rendering API.
package scrapingbee

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the bypass-API operations.
type Client interface {
	// Fetch retrieves the (optionally JS-rendered) markup of a target URL.
	Fetch(ctx context.Context, req Request) (string, error)
}

// Request describes one bypass fetch.
type Request struct {
	URL          string
	RenderJS     bool
	WaitSelector string // CSS selector the renderer should wait for
	WaitMillis   int    // extra settle time after load
	PremiumProxy bool
	CountryCode  string
}

// StatusError is returned for non-200 upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("scrapingbee: status %d: %s", e.StatusCode, e.Body)
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

// NewClient creates a ScrapingBee client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://app.scrapingbee.com/api/v1",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

func (c *httpClient) Fetch(ctx context.Context, req Request) (string, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", req.URL)
	params.Set("render_js", strconv.FormatBool(req.RenderJS))
	if req.WaitSelector != "" {
		params.Set("wait_for", req.WaitSelector)
	}
	if req.WaitMillis > 0 {
		params.Set("wait", strconv.Itoa(req.WaitMillis))
	}
	if req.PremiumProxy {
		params.Set("premium_proxy", "true")
	}
	if req.CountryCode != "" {
		params.Set("country_code", req.CountryCode)
	}

	reqURL := c.baseURL + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "scrapingbee: create request")
	}

	body, statusCode, err := c.retryDo(ctx, httpReq)
	if err != nil {
		return "", err
	}
	if statusCode != http.StatusOK {
		return "", &StatusError{StatusCode: statusCode, Body: truncate(string(body), 200)}
	}
	return string(body), nil
}

// retryDo executes a request with exponential backoff on transient status
// codes (429, 500, 502, 503).
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		retryReq := req.Clone(ctx)

		resp, err := c.http.Do(retryReq)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "scrapingbee: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("scrapingbee: status %d", resp.StatusCode)
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
