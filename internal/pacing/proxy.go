package pacing

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ProxyPool rotates through proxies in insertion order, skipping entries
// marked failed. Failure marking is monotonic: a failed proxy is never
// returned again for the life of the pool.
type ProxyPool struct {
	mu      sync.Mutex
	entries []string
	failed  map[string]bool
	next    int
}

// NewProxyPool creates a pool from a list of proxy addresses. Blank entries
// are dropped; addresses without a scheme get http://.
func NewProxyPool(addrs []string) *ProxyPool {
	p := &ProxyPool{failed: make(map[string]bool)}
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if !strings.Contains(a, "://") {
			a = "http://" + a
		}
		p.entries = append(p.entries, a)
	}
	return p
}

// Next returns the next live proxy in rotation, or ok=false when the pool
// is empty or every entry has failed.
func (p *ProxyPool) Next() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.entries) == 0 || len(p.failed) >= len(p.entries) {
		return "", false
	}

	for range p.entries {
		proxy := p.entries[p.next]
		p.next = (p.next + 1) % len(p.entries)
		if !p.failed[proxy] {
			return proxy, true
		}
	}
	return "", false
}

// MarkFailed permanently removes a proxy from rotation.
func (p *ProxyPool) MarkFailed(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, known := p.failed[proxy]; known {
		return
	}
	for _, e := range p.entries {
		if e == proxy {
			p.failed[proxy] = true
			zap.L().Warn("proxy marked failed",
				zap.String("proxy", proxy),
				zap.Int("remaining", len(p.entries)-len(p.failed)),
			)
			return
		}
	}
}

// Size returns the total number of entries in the pool.
func (p *ProxyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Exhausted reports whether every proxy has been marked failed.
func (p *ProxyPool) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries) > 0 && len(p.failed) >= len(p.entries)
}
