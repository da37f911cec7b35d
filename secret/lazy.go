package secret

import (
	"context"
	"fmt"
	"sync"
)

// lazyClient builds a backend client on first use.
//
// Concurrent first callers share one construction. A failed construction
// is not remembered, so the next call tries again.
type lazyClient[T any] struct {
	kind  Kind
	build func(ctx context.Context) (T, error)

	mu     sync.Mutex
	client T
	ready  bool
	closed bool
}

func newLazyClient[T any](kind Kind, build func(ctx context.Context) (T, error)) *lazyClient[T] {
	return &lazyClient[T]{kind: kind, build: build}
}

// get returns the client, building it if needed. Construction errors wrap
// ErrClientUnavailable.
func (l *lazyClient[T]) get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	if l.closed {
		return zero, fmt.Errorf("%w: %s provider closed", ErrClientUnavailable, l.kind)
	}
	if l.ready {
		return l.client, nil
	}

	c, err := l.build(ctx)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrClientUnavailable, l.kind, err)
	}
	l.client = c
	l.ready = true
	return c, nil
}

// set installs a prebuilt client.
func (l *lazyClient[T]) set(c T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.client = c
	l.ready = true
}

// close marks the holder closed and hands back the client if one was built.
func (l *lazyClient[T]) close() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	c, ok := l.client, l.ready
	var zero T
	l.client, l.ready = zero, false
	return c, ok
}
