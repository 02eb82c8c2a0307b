package cache

import (
	"sync"
	"time"
)

// GlobalFeedKey is the fixed key for the unparameterized global feed view.
// The cache generalizes to one entry per (view, page) key, but callers that
// render the default view always use this single slot.
const GlobalFeedKey = "feed:global"

// DefaultPageTTL matches the production configuration for the global feed.
const DefaultPageTTL = 20 * time.Second

// maxPageEntries bounds the map. Page numbers come from the query string, so
// the key space is caller-controlled; the legitimate working set is a handful
// of views with a few pages each.
const maxPageEntries = 128

type pageEntry struct {
	body        []byte
	contentType string
	storedAt    time.Time
}

// PageCache holds rendered feed responses for a fixed TTL. Staleness inside
// the window is intentional: post mutations do NOT invalidate entries, only
// expiry or Clear does. A single RWMutex guards the whole map; the state is
// small enough that finer-grained locking buys nothing.
type PageCache struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]pageEntry
}

// NewPageCache creates a PageCache with the given TTL.
func NewPageCache(ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]pageEntry),
	}
}

// Get returns the stored body and content type for key, if present and fresh.
// Expired entries are removed on the way out.
func (c *PageCache) Get(key string) ([]byte, string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, "", false
	}
	if c.clock().Sub(entry.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry since the read above.
		if current, present := c.entries[key]; present && c.clock().Sub(current.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, "", false
	}
	return entry.body, entry.contentType, true
}

// Set stores a rendered response under key. The body is copied so callers may
// reuse their buffer. When the map is full, expired entries are swept first;
// a new key that still does not fit is dropped rather than grow the map.
func (c *PageCache) Set(key, contentType string, body []byte) {
	stored := make([]byte, len(body))
	copy(stored, body)

	now := c.clock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= maxPageEntries {
		for k, e := range c.entries {
			if now.Sub(e.storedAt) >= c.ttl {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= maxPageEntries {
			if _, present := c.entries[key]; !present {
				return
			}
		}
	}

	c.entries[key] = pageEntry{
		body:        stored,
		contentType: contentType,
		storedAt:    now,
	}
}

// Clear empties the cache immediately, regardless of TTL. Used operationally
// after bulk data changes and by tests to force freshness.
func (c *PageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]pageEntry)
	c.mu.Unlock()
}

// Len reports the number of stored entries, fresh or expired.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the configured time-to-live.
func (c *PageCache) TTL() time.Duration {
	return c.ttl
}
