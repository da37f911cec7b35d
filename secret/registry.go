package secret

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ProviderFactory builds a Provider from configuration. Factories must not
// contact the backend; clients are constructed on first use.
type ProviderFactory func(ctx context.Context, cfg Config) (Provider, error)

// Registry maps backend kinds to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]ProviderFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]ProviderFactory)}
}

// NewDefaultRegistry creates a registry holding the AWS, Azure, GCP, and
// environment backends.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(KindAWS, func(_ context.Context, cfg Config) (Provider, error) {
		return NewAWSProvider(cfg.region()), nil
	})
	_ = r.Register(KindAzure, func(_ context.Context, cfg Config) (Provider, error) {
		p, err := NewAzureProvider(cfg.AzureVaultURL)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
	_ = r.Register(KindGCP, func(_ context.Context, cfg Config) (Provider, error) {
		p, err := NewGCPProvider(cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
	_ = r.Register(KindEnv, func(_ context.Context, cfg Config) (Provider, error) {
		return NewEnvProvider(cfg.Lookup), nil
	})
	return r
}

// Register adds a factory for kind.
func (r *Registry) Register(kind Kind, factory ProviderFactory) error {
	if kind == "" || factory == nil {
		return errors.New("secret: invalid provider registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("secret: provider %q already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// Create builds the provider registered for kind.
func (r *Registry) Create(ctx context.Context, kind Kind, cfg Config) (Provider, error) {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", ErrUnknownKind, kind)
	}
	return factory(ctx, cfg)
}

// List returns registered kinds, sorted.
func (r *Registry) List() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
