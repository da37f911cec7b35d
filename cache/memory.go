package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-memory cache implementation.
//
// Entries are kept in insertion order so a bounded cache can evict the
// oldest entry when a new key would exceed Policy.Capacity.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*list.Element
	order   *list.List
	policy  Policy
	now     func() time.Time
}

type cacheEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache with the given policy.
// Negative capacities and TTLs are treated as zero.
func NewMemoryCache(policy Policy) *MemoryCache {
	if policy.Capacity < 0 {
		policy.Capacity = 0
	}
	if policy.TTL < 0 {
		policy.TTL = 0
	}
	return &MemoryCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		policy:  policy,
		now:     time.Now,
	}
}

// Policy returns the policy the cache was built with.
func (c *MemoryCache) Policy() Policy {
	return c.policy
}

// Get retrieves a value from the cache. Returns ("", false) on miss or expiry.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	elem, ok := c.entries[key]
	var entry cacheEntry
	if ok {
		entry = *elem.Value.(*cacheEntry)
	}
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if c.expired(entry) {
		// Expired - clean up lazily
		c.mu.Lock()
		if elem, ok := c.entries[key]; ok && c.expired(*elem.Value.(*cacheEntry)) {
			c.removeLocked(elem)
		}
		c.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Set stores a value. Re-setting a key moves it to the newest position.
func (c *MemoryCache) Set(_ context.Context, key string, value string) error {
	entry := &cacheEntry{key: key, value: value}
	if c.policy.Expires() {
		entry.expiresAt = c.now().Add(c.policy.TTL)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value = entry
		c.order.MoveToBack(elem)
		return nil
	}

	c.entries[key] = c.order.PushBack(entry)

	if c.policy.Bounded() {
		for c.order.Len() > c.policy.Capacity {
			c.removeLocked(c.order.Front())
		}
	}
	return nil
}

// Delete removes a value from the cache. Idempotent - no error on miss.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}
	c.mu.Unlock()
	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including ones that have expired
// but not yet been collected.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

func (c *MemoryCache) expired(entry cacheEntry) bool {
	return !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt)
}

// removeLocked drops elem. Caller must hold the write lock.
func (c *MemoryCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
