package geocode

import (
	"container/list"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// resultCache is a thread-safe bounded cache of lookup outcomes keyed by
// normalized address. A nil result is a memoized "not found" and is served
// exactly like a hit, so unresolvable addresses do not generate repeat
// traffic. Entries expire ttl after insertion; staleness is checked lazily
// on read and stale entries are only ever overwritten, never swept.
//
// Eviction is FIFO on insertion order, not LRU: reads do not refresh an
// entry's position, and updating an existing key keeps its original slot.
type resultCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	order      *list.List // of string keys; front is oldest inserted
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
}

type cacheEntry struct {
	result    *GeocodingResult
	timestamp time.Time
}

func newResultCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *resultCache {
	return &resultCache{
		entries:    make(map[string]*cacheEntry),
		order:      list.New(),
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
	}
}

// get returns the stored result for key if the entry is still fresh. The
// bool reports whether a fresh entry existed; the result itself may be nil
// (a cached not-found).
func (c *resultCache) get(key string) (*GeocodingResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.clock.Since(e.timestamp) >= c.ttl {
		return nil, false
	}
	return e.result, true
}

// put stores a result (or nil for a confirmed not-found) under key. When the
// cache is full and key is new, the oldest surviving insertion is evicted
// first.
func (c *resultCache) put(key string, result *GeocodingResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.result = result
		e.timestamp = c.clock.Now()
		return
	}

	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry{result: result, timestamp: c.clock.Now()}
	c.order.PushBack(key)
}

func (c *resultCache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	delete(c.entries, front.Value.(string))
	c.order.Remove(front)
}

func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
