package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache      = errors.New("cache: cache is nil")
	ErrInvalidKey    = errors.New("cache: key is invalid")
	ErrKeyTooLong    = errors.New("cache: key exceeds max length")
	ErrInvalidPolicy = errors.New("cache: policy is invalid")
)

// Cache stores resolved secret values keyed by secret name.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns ("", false) on miss or expiry.
// - Values: callers decide what is cacheable; Set stores whatever it is given.
type Cache interface {
	// Get retrieves a cached value. Returns ("", false) on miss.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value, evicting the oldest entry if the cache is full.
	Set(ctx context.Context, key string, value string) error

	// Delete removes a cached value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error

	// Clear removes every cached value.
	Clear(ctx context.Context) error

	// Len reports the number of live entries.
	Len() int
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
