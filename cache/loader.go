package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc fetches the value for key on a cache miss.
type LoadFunc func(ctx context.Context, key string) (string, error)

// Loader memoizes a LoadFunc on top of a Cache.
//
// Contract:
//   - Concurrency: at most one LoadFunc call is in flight per key; concurrent
//     callers for the same key share its result.
//   - Errors and empty values are NOT cached.
//   - A load that started before an invalidation never repopulates the cache.
type Loader struct {
	cache Cache
	group singleflight.Group

	mu   sync.Mutex
	gen  uint64
	keys map[string]uint64
}

// NewLoader creates a loader backed by c.
func NewLoader(c Cache) *Loader {
	return &Loader{
		cache: c,
		keys:  make(map[string]uint64),
	}
}

// Cache returns the underlying cache.
func (l *Loader) Cache() Cache {
	return l.cache
}

// Load returns the cached value for key, or calls fn once and caches a
// non-empty result. hit reports whether the value came from the cache.
func (l *Loader) Load(ctx context.Context, key string, fn LoadFunc) (value string, hit bool, err error) {
	if l == nil || l.cache == nil {
		return "", false, ErrNilCache
	}
	if err := ValidateKey(key); err != nil {
		return "", false, err
	}

	if cached, ok := l.cache.Get(ctx, key); ok {
		return cached, true, nil
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		// Another flight may have filled the cache between Get and Do.
		if cached, ok := l.cache.Get(ctx, key); ok {
			return cached, nil
		}

		stamp := l.stamp(key)
		result, err := fn(ctx, key)
		if err != nil {
			return "", err
		}
		if result != "" && l.current(key, stamp) {
			_ = l.cache.Set(ctx, key, result)
		}
		return result, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.(string), false, nil
}

// Invalidate drops key from the cache and detaches any in-flight load for it.
func (l *Loader) Invalidate(ctx context.Context, key string) error {
	l.mu.Lock()
	l.keys[key]++
	l.mu.Unlock()
	l.group.Forget(key)
	return l.cache.Delete(ctx, key)
}

// InvalidateAll drops every cached entry. Loads already in flight still
// return to their callers but no longer populate the cache.
func (l *Loader) InvalidateAll(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	l.keys = make(map[string]uint64)
	l.mu.Unlock()
	return l.cache.Clear(ctx)
}

type loadStamp struct {
	gen uint64
	key uint64
}

func (l *Loader) stamp(key string) loadStamp {
	l.mu.Lock()
	defer l.mu.Unlock()
	return loadStamp{gen: l.gen, key: l.keys[key]}
}

func (l *Loader) current(key string, s loadStamp) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen == s.gen && l.keys[key] == s.key
}
