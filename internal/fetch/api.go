package fetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/pacing"
	"github.com/sells-group/leadgen-cli/pkg/scrapingbee"
)

// circuitBreaker trips after consecutive failures within a window so a
// broken upstream fails fast instead of burning the request budget.
type circuitBreaker struct {
	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	openUntil   time.Time
	threshold   int
	window      time.Duration
	cooldown    time.Duration
}

func newCircuitBreaker(threshold int, window, cooldown time.Duration) *circuitBreaker {
	return &circuitBreaker{threshold: threshold, window: window, cooldown: cooldown}
}

func (cb *circuitBreaker) isOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return time.Now().Before(cb.openUntil)
}

func (cb *circuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	now := time.Now()
	if now.Sub(cb.lastFailure) > cb.window {
		cb.failures = 0
	}
	cb.failures++
	cb.lastFailure = now
	if cb.failures >= cb.threshold {
		cb.openUntil = now.Add(cb.cooldown)
		zap.L().Warn("fetch: bypass API circuit breaker opened",
			zap.Int("failures", cb.failures),
			zap.Duration("cooldown", cb.cooldown),
		)
	}
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
}

// APIFetcher fetches pages through a block-bypass API, rotating proxies
// from the shared pool when premium proxying is enabled.
type APIFetcher struct {
	client  scrapingbee.Client
	proxies *pacing.ProxyPool
	breaker *circuitBreaker
}

// NewAPIFetcher wraps a bypass-API client. proxies may be nil.
func NewAPIFetcher(client scrapingbee.Client, proxies *pacing.ProxyPool) *APIFetcher {
	return &APIFetcher{
		client:  client,
		proxies: proxies,
		breaker: newCircuitBreaker(3, 30*time.Second, 60*time.Second),
	}
}

func (f *APIFetcher) Name() string { return "bypass-api" }

// Fetch retrieves the rendered markup for url. Errors are mapped onto the
// fetch error taxonomy so callers can distinguish timeouts from status and
// transport failures.
func (f *APIFetcher) Fetch(ctx context.Context, url string, opts Options) (string, error) {
	if f.breaker.isOpen() {
		return "", NewNetwork(errors.New("bypass API circuit breaker open"))
	}

	req := scrapingbee.Request{
		URL:          url,
		RenderJS:     opts.RenderJS,
		WaitSelector: opts.WaitSelector,
		PremiumProxy: f.proxies != nil && f.proxies.Size() > 0,
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	html, err := f.client.Fetch(ctx, req)
	if err != nil {
		f.breaker.recordFailure()
		return "", classify(err)
	}

	f.breaker.recordSuccess()
	return html, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeout(err)
	}
	var se *scrapingbee.StatusError
	if errors.As(err, &se) {
		return NewHTTPStatus(se.StatusCode)
	}
	return NewNetwork(err)
}
