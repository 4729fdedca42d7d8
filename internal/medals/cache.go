package medals

import "sync"

// DefaultCacheEntries bounds the memo cache when the caller passes no limit.
const DefaultCacheEntries = 256

// Cache memoizes aggregate results keyed by (dataset version, filter spec,
// group key). It is purely a performance aid: entries computed against one
// dataset version are unreachable once the version changes, and Reset drops
// them eagerly on upload. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	max     int
	entries map[cacheKey]AggregateResult
	hits    uint64
	misses  uint64
}

type cacheKey struct {
	version string
	filter  string
	group   GroupKey
}

// NewCache returns a cache holding at most maxEntries results. maxEntries
// <= 0 falls back to DefaultCacheEntries. When the cache fills it drops all
// entries rather than tracking recency.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &Cache{
		max:     maxEntries,
		entries: make(map[cacheKey]AggregateResult),
	}
}

// Get returns the memoized result for the key triple, if present.
func (c *Cache) Get(version string, spec FilterSpec, group GroupKey) (AggregateResult, bool) {
	key := cacheKey{version: version, filter: spec.CacheKey(), group: group}
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return result, ok
}

// Put stores a result under the key triple.
func (c *Cache) Put(version string, spec FilterSpec, group GroupKey, result AggregateResult) {
	key := cacheKey{version: version, filter: spec.CacheKey(), group: group}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		c.entries = make(map[cacheKey]AggregateResult)
	}
	c.entries[key] = result
}

// Reset drops every entry. Called when a new dataset replaces the table.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]AggregateResult)
}

// Stats reports lifetime hits and misses plus the current entry count.
func (c *Cache) Stats() (hits, misses uint64, entries int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.entries)
}
