package session

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
)

const defaultCacheCapacity = 4096

// principalCache is a small in-memory LRU of verified principals with per-entry expiry.
// Keys are digests of the raw cookie so session values are never held as map keys.
//
// Invalidated keys leave a tombstone stamped with a generation number. A set whose
// snapshot predates the tombstone is dropped, so a lookup that read the store before
// sign-out cannot re-cache the principal afterwards.
// Concurrency: methods are safe for concurrent use.
type principalCache struct {
	mu         sync.Mutex
	cap        int
	ll         *list.List // front = most-recently used
	items      map[string]*list.Element
	gen        uint64
	tombstones map[string]tombstone
	now        func() time.Time
	hits       atomic.Uint64
	misses     atomic.Uint64
	evicts     atomic.Uint64
}

type tombstone struct {
	gen    uint64
	expiry time.Time
}

type cacheEntry struct {
	key       string
	principal domainauth.Principal
	expiry    time.Time
}

// cacheStats is a snapshot of cache counters.
type cacheStats struct {
	Hits   uint64
	Misses uint64
	Evicts uint64
	Len    int
}

func newPrincipalCache(capacity int, now func() time.Time) *principalCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &principalCache{
		cap:        capacity,
		ll:         list.New(),
		items:      make(map[string]*list.Element, capacity),
		tombstones: make(map[string]tombstone),
		now:        now,
	}
}

func cacheKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// get returns the principal for key if present and not expired.
func (c *principalCache) get(key string) (domainauth.Principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, found := c.items[key]
	if !found {
		c.misses.Add(1)
		return domainauth.Principal{}, false
	}
	ent, ok := el.Value.(*cacheEntry)
	if !ok || !c.now().Before(ent.expiry) {
		c.removeElement(el)
		c.misses.Add(1)
		return domainauth.Principal{}, false
	}
	c.ll.MoveToFront(el)
	c.hits.Add(1)
	return ent.principal, true
}

// snapshot returns the current generation. Pass it to set after the store read.
func (c *principalCache) snapshot() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// set stores p for ttl unless key was invalidated after since. ttl <= 0 is ignored.
// It reports whether the entry was stored.
func (c *principalCache) set(key string, p domainauth.Principal, ttl time.Duration, since uint64) bool {
	if ttl <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if ts, ok := c.tombstones[key]; ok {
		if now.Before(ts.expiry) && ts.gen > since {
			return false
		}
		if !now.Before(ts.expiry) {
			delete(c.tombstones, key)
		}
	}

	exp := now.Add(ttl)
	if el, found := c.items[key]; found {
		if ent, ok := el.Value.(*cacheEntry); ok {
			ent.principal = p
			ent.expiry = exp
			c.ll.MoveToFront(el)
			return true
		}
		c.removeElement(el)
	}

	c.items[key] = c.ll.PushFront(&cacheEntry{key: key, principal: p, expiry: exp})
	for c.ll.Len() > c.cap {
		if back := c.ll.Back(); back != nil {
			c.removeElement(back)
			c.evicts.Add(1)
		}
	}
	return true
}

// invalidate removes key and blocks older lookups from re-adding it for hold.
func (c *principalCache) invalidate(key string, hold time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, ts := range c.tombstones {
		if !now.Before(ts.expiry) {
			delete(c.tombstones, k)
		}
	}
	c.gen++
	c.tombstones[key] = tombstone{gen: c.gen, expiry: now.Add(hold)}

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		return true
	}
	return false
}

func (c *principalCache) stats() cacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Evicts: c.evicts.Load(),
		Len:    c.ll.Len(),
	}
}

func (c *principalCache) removeElement(el *list.Element) {
	c.ll.Remove(el)
	if ent, ok := el.Value.(*cacheEntry); ok {
		delete(c.items, ent.key)
	}
}
