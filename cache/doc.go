// Package cache provides the in-memory memo used for resolved secrets.
//
// It provides a Cache interface with a memory implementation that can be
// bounded (oldest-first eviction) and optionally expiring, a Policy that
// makes capacity and write invalidation explicit, and a Loader that
// collapses concurrent misses for the same key into one fetch.
package cache
