package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func TestQueryCache_FIFOEviction(t *testing.T) {
	c := NewQueryCache(2)
	c.Put("a", []model.RawHit{{URL: "a"}})
	c.Put("b", []model.RawHit{{URL: "b"}})
	c.Put("c", []model.RawHit{{URL: "c"}})

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry evicted")
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestQueryCache_OverwriteKeepsPosition(t *testing.T) {
	c := NewQueryCache(2)
	c.Put("a", []model.RawHit{{URL: "a1"}})
	c.Put("b", nil)
	c.Put("a", []model.RawHit{{URL: "a2"}})

	hits, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "a2", hits[0].URL)

	// "a" is still the eviction candidate.
	c.Put("c", nil)
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestQueryCache_ZeroCapacityDisables(t *testing.T) {
	c := NewQueryCache(0)
	c.Put("a", []model.RawHit{{URL: "a"}})
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestQueryCache_EmptyHitsAreCacheable(t *testing.T) {
	c := NewQueryCache(4)
	c.Put("empty", nil)
	hits, ok := c.Get("empty")
	assert.True(t, ok)
	assert.Empty(t, hits)
}
