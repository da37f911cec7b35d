package cache

import (
	"fmt"
	"time"
)

// DefaultMemoCapacity is the capacity used by MemoPolicy.
const DefaultMemoCapacity = 50

// Invalidation selects what a write invalidates.
type Invalidation int

const (
	// InvalidateAll drops every cached entry after a write.
	InvalidateAll Invalidation = iota
	// InvalidateKey drops only the entry that was written.
	InvalidateKey
)

// String returns the string representation of the invalidation mode.
func (i Invalidation) String() string {
	switch i {
	case InvalidateAll:
		return "all"
	case InvalidateKey:
		return "key"
	default:
		return "unknown"
	}
}

// ParseInvalidation parses "all" or "key". Anything else yields InvalidateAll.
func ParseInvalidation(s string) Invalidation {
	if s == "key" {
		return InvalidateKey
	}
	return InvalidateAll
}

// Policy configures caching behavior.
type Policy struct {
	// Capacity bounds the number of entries. Oldest insertions are evicted first.
	// If zero, the cache is unbounded.
	Capacity int

	// TTL expires entries after the given duration.
	// If zero, entries never expire.
	TTL time.Duration

	// Invalidation controls what a successful write drops.
	// Default: InvalidateAll
	Invalidation Invalidation
}

// DefaultPolicy returns an unbounded, non-expiring policy that invalidates
// the whole cache on write.
func DefaultPolicy() Policy {
	return Policy{}
}

// MemoPolicy returns a fixed-capacity policy holding DefaultMemoCapacity entries.
func MemoPolicy() Policy {
	return Policy{Capacity: DefaultMemoCapacity}
}

// Validate validates the policy.
func (p Policy) Validate() error {
	if p.Capacity < 0 {
		return fmt.Errorf("%w: capacity must be >= 0, got %d", ErrInvalidPolicy, p.Capacity)
	}
	if p.TTL < 0 {
		return fmt.Errorf("%w: ttl must be >= 0, got %s", ErrInvalidPolicy, p.TTL)
	}
	switch p.Invalidation {
	case InvalidateAll, InvalidateKey:
	default:
		return fmt.Errorf("%w: unknown invalidation mode %d", ErrInvalidPolicy, p.Invalidation)
	}
	return nil
}

// Bounded reports whether the policy caps the number of entries.
func (p Policy) Bounded() bool {
	return p.Capacity > 0
}

// Expires reports whether entries carry an expiry.
func (p Policy) Expires() bool {
	return p.TTL > 0
}
