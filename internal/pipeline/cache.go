package pipeline

import (
	"sync"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// QueryCache memoizes acquisition results per (source, region, query) so a
// run with overlapping expansions never hits the same source twice for the
// same work. Bounded FIFO: when full, the oldest entry is evicted.
type QueryCache struct {
	mu       sync.Mutex
	capacity int
	order    []string
	entries  map[string][]model.RawHit
}

// NewQueryCache creates a cache holding at most capacity entries. A
// capacity of zero or less disables caching.
func NewQueryCache(capacity int) *QueryCache {
	return &QueryCache{
		capacity: capacity,
		entries:  make(map[string][]model.RawHit),
	}
}

// Get returns the cached hits for key, if present.
func (c *QueryCache) Get(key string) ([]model.RawHit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	hits, ok := c.entries[key]
	return hits, ok
}

// Put stores hits under key, evicting the oldest entry when full. Existing
// keys are overwritten without changing their eviction position.
func (c *QueryCache) Put(key string, hits []model.RawHit) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = hits
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.order = append(c.order, key)
	c.entries[key] = hits
}

// Len reports the number of cached entries.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
