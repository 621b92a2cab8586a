package auth

import (
	"sync"
	"time"

	"github.com/sekhonkennels/kennel-portal/internal/models"
)

// cacheEntry wraps a cached lookup result with its cache time and insertion
// order. A nil session is a cached "not found" (negative caching).
type cacheEntry struct {
	session   *models.Session
	cachedAt  time.Time
	insertIdx int64
}

// SessionCache is an in-process, bounded-staleness shadow of the session
// store, keyed by token digest. Entries older than the freshness window are
// never trusted and force revalidation against the store. The cache is
// capped at maxEntries; the oldest entry is evicted when full.
// Thread-safe with sync.RWMutex.
type SessionCache struct {
	mu         sync.RWMutex
	items      map[string]cacheEntry
	window     time.Duration
	maxEntries int
	nextIdx    int64

	now func() time.Time
}

// NewSessionCache creates a SessionCache with the given freshness window and
// max entry count.
func NewSessionCache(window time.Duration, maxEntries int) *SessionCache {
	return &SessionCache{
		items:      make(map[string]cacheEntry),
		window:     window,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached result for a digest. ok is false when there is no
// entry or the entry is older than the freshness window; the caller must
// then consult the store. A fresh hit may carry a nil session (cached
// absence). A fresh positive entry whose session has itself expired is
// evicted and reported with expired=true so the caller can clean up the
// backing store row: the freshness window bounds staleness but never
// overrides the session's own expiration.
func (c *SessionCache) Get(digest string) (session *models.Session, expired bool, ok bool) {
	c.mu.RLock()
	e, exists := c.items[digest]
	c.mu.RUnlock()

	if !exists {
		return nil, false, false
	}

	now := c.now()
	if now.Sub(e.cachedAt) >= c.window {
		return nil, false, false
	}

	if e.session != nil && e.session.IsExpired(now) {
		c.Evict(digest)
		return nil, true, true
	}

	return e.session, false, true
}

// Put stores a lookup result (session, or nil for a confirmed absence)
// under the digest with cachedAt = now. Evicts the oldest entry if at
// capacity.
func (c *SessionCache) Put(digest string, session *models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := cacheEntry{
		session:   session,
		cachedAt:  c.now(),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[digest]; exists {
		c.items[digest] = e
		return
	}

	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[digest] = e
}

// Evict removes an entry (used on deletion and expiry).
func (c *SessionCache) Evict(digest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, digest)
}

// Len returns the number of cached entries.
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called
// with mu held.
func (c *SessionCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
