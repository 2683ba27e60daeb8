package strava

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"stride/pkg/logging"
)

// DefaultCacheTTL is the validity window of a memoized response. Five
// minutes keeps repeated tool calls off Strava's rate limits while staying
// short enough that new activities show up promptly.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	payload  json.RawMessage
	storedAt time.Time
}

// ResponseCache is a time-windowed memoization layer keyed by request
// signature. Stale entries are skipped on read, not purged: the next Put
// for the same key supersedes them, so memory is bounded by the set of
// distinct endpoints queried within the TTL window.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration

	// now is replaceable for tests.
	now func() time.Time
}

// NewResponseCache creates an empty cache with the default TTL.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]cacheEntry),
		ttl:     DefaultCacheTTL,
		now:     time.Now,
	}
}

// Get returns the cached payload for key if one exists and is still inside
// the TTL window. Expired entries report a miss but are left in place.
func (c *ResponseCache) Get(key string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		logging.Debug("Cache", "Entry for %s expired, treating as miss", key)
		return nil, false
	}
	return entry.payload, true
}

// Put unconditionally stores payload under key with a fresh timestamp,
// overwriting any prior entry.
func (c *ResponseCache) Put(key string, payload json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, storedAt: c.now()}
}

// Clear empties the cache. Used for explicit cache-busting, for example
// when a webhook reports that an activity changed; nothing calls it on a
// schedule.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	logging.Debug("Cache", "Cleared all entries")
}

// CacheKey derives the cache key for a request. Query parameters are
// encoded in sorted order so that logically identical requests share a key
// regardless of how callers assembled their parameters.
func CacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}
