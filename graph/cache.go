package graph

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultCacheTTL is the freshness window inside which a rebuild is skipped.
const DefaultCacheTTL = 5 * time.Minute

// generation is a process-wide counter incremented on every completed build,
// so staleness can be an explicit comparison instead of a wall-clock guess.
var generation atomic.Uint64

func nextGeneration() uint64 {
	return generation.Add(1)
}

// CurrentGeneration returns the generation of the most recent build in this
// process.
func CurrentGeneration() uint64 {
	return generation.Load()
}

// Cache holds built graphs keyed by project root. Entries expire after the
// TTL; a Get inside the window returns the cached graph, so concurrent
// projects each keep their own entry. Reads and writes happen only at the
// start and end of a build; concurrent builds for the same root must be
// serialized by the caller.
type Cache struct {
	lru *expirable.LRU[string, *Graph]
	ttl time.Duration
}

// NewCache creates a Cache with the given TTL. A zero TTL uses the default
// freshness window.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		lru: expirable.NewLRU[string, *Graph](8, nil, ttl),
		ttl: ttl,
	}
}

// Get returns the cached graph for a project root, if still fresh.
func (c *Cache) Get(root string) (*Graph, bool) {
	return c.lru.Get(root)
}

// Put stores a freshly built graph.
func (c *Cache) Put(root string, g *Graph) {
	c.lru.Add(root, g)
}

// Invalidate drops the cached graph for a project root.
func (c *Cache) Invalidate(root string) {
	c.lru.Remove(root)
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
