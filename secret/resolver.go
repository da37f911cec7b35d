package secret

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jonwraymond/designops/cache"
	"github.com/jonwraymond/designops/observe"
	"github.com/jonwraymond/designops/resilience"
)

// Resolver resolves secret names through one backend with an in-memory
// cache and an environment-variable fallback.
//
// Lookup order for Get:
//  1. cache hit: returned without calling the backend;
//  2. backend fetch, at most one in flight per name;
//  3. on any backend failure, under PolicyFallback, the environment
//     variable named exactly like the secret;
//  4. a non-empty result is cached.
//
// Under PolicyFallback, Get never returns an error for a valid name and ""
// means not found. Under PolicyStrict backend failures are returned and
// the environment is not consulted.
//
// A Resolver is safe for concurrent use.
type Resolver struct {
	provider Provider
	kind     Kind
	policy   FailurePolicy
	inval    cache.Invalidation
	lookup   LookupFunc

	loader  *cache.Loader
	exec    *resilience.Executor
	logger  observe.Logger
	metrics observe.Metrics
	mw      *observe.Middleware
	fetch   observe.FetchFunc

	closed atomic.Bool
}

// New builds a Resolver from cfg using the default backends. An empty
// cfg.Kind is detected from cfg.Lookup. Cloud backends get DefaultExecutor
// unless WithExecutor is given.
func New(ctx context.Context, cfg Config, opts ...Option) (*Resolver, error) {
	return NewWithRegistry(ctx, NewDefaultRegistry(), cfg, opts...)
}

// NewWithRegistry is New with a caller-supplied registry.
func NewWithRegistry(ctx context.Context, reg *Registry, cfg Config, opts ...Option) (*Resolver, error) {
	cfg.Lookup = cfg.Lookup.orDefault()
	if cfg.Kind == "" {
		cfg.Kind = Detect(cfg.Lookup)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := reg.Create(ctx, cfg.Kind, cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", cfg.Kind, err)
	}

	base := []Option{
		WithLookup(cfg.Lookup),
		WithCachePolicy(cfg.Cache),
		WithFailurePolicy(cfg.FailurePolicy),
	}
	if cfg.Kind.Cloud() {
		base = append(base, WithExecutor(DefaultExecutor()))
	}
	return NewResolver(p, append(base, opts...)...), nil
}

// NewResolver wraps an existing provider.
func NewResolver(p Provider, opts ...Option) *Resolver {
	o := options{cachePolicy: cache.DefaultPolicy()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.middleware == nil {
		o.middleware = observe.NewMiddleware(nil, nil, o.logger)
	}
	if o.logger == nil {
		o.logger = o.middleware.Logger()
	}
	if o.cache == nil {
		o.cache = cache.NewMemoryCache(o.cachePolicy)
	}
	if o.executor == nil {
		o.executor = resilience.NewExecutor()
	}

	r := &Resolver{
		provider: p,
		kind:     p.Kind(),
		policy:   o.policy,
		inval:    o.cachePolicy.Invalidation,
		lookup:   o.lookup.orDefault(),
		loader:   cache.NewLoader(o.cache),
		exec:     o.executor,
		logger:   o.logger.With(observe.F("component", "secret")),
		metrics:  o.middleware.Metrics(),
		mw:       o.middleware,
	}
	r.fetch = r.mw.Wrap(r.resolveBackend)

	if r.kind == KindEnv {
		r.logger.Warn(context.Background(),
			"production-grade secret storage is not configured; secrets are read from environment variables",
			observe.F("provider", r.kind.String()))
	} else {
		r.logger.Info(context.Background(), "secret provider selected",
			observe.F("provider", r.kind.String()),
			observe.F("failure_policy", r.policy.String()))
	}
	return r
}

// Provider returns the backend kind.
func (r *Resolver) Provider() Kind { return r.kind }

// ProviderName returns the backend kind as a string.
func (r *Resolver) ProviderName() string { return r.kind.String() }

// Backend returns the underlying provider.
func (r *Resolver) Backend() Provider { return r.provider }

// FailurePolicy returns the configured failure policy.
func (r *Resolver) FailurePolicy() FailurePolicy { return r.policy }

// Executor returns the guards around backend calls.
func (r *Resolver) Executor() *resilience.Executor { return r.exec }

// Get resolves name. See Resolver for the lookup order.
func (r *Resolver) Get(ctx context.Context, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	if r.closed.Load() {
		return "", ErrClosed
	}

	value, hit, err := r.loader.Load(ctx, name, r.load)
	if err != nil {
		return "", err
	}
	if hit {
		meta := r.meta(observe.OpGet, name)
		r.metrics.RecordCacheHit(ctx, meta)
		r.logger.Debug(ctx, "secret served from cache", meta.Fields()...)
	}
	return value, nil
}

// GetDefault resolves name, returning def if the lookup fails or yields
// nothing, under either failure policy.
func (r *Resolver) GetDefault(ctx context.Context, name, def string) string {
	v, err := r.Get(ctx, name)
	if err != nil || v == "" {
		return def
	}
	return v
}

// Set writes value to the backend and invalidates the cache: every entry
// by default, or only name under cache.InvalidateKey. Providers that do
// not implement Writer return ErrUnsupported.
func (r *Resolver) Set(ctx context.Context, name, value string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if value == "" {
		return ErrEmptyValue
	}
	if r.closed.Load() {
		return ErrClosed
	}

	w, ok := r.provider.(Writer)
	if !ok {
		return fmt.Errorf("%w: %s provider cannot store secrets", ErrUnsupported, r.kind)
	}

	meta := r.meta(observe.OpSet, name)
	store := r.mw.Wrap(func(ctx context.Context, meta observe.LookupMeta) (string, error) {
		return "", r.exec.Execute(ctx, func(ctx context.Context) error {
			return guard(w.Store(ctx, meta.Secret, value))
		})
	})
	if _, err := store(ctx, meta); err != nil {
		return fmt.Errorf("store secret %q: %w", name, err)
	}

	var err error
	if r.inval == cache.InvalidateKey {
		err = r.loader.Invalidate(ctx, name)
	} else {
		err = r.loader.InvalidateAll(ctx)
	}
	r.logger.Info(ctx, "secret stored", append(meta.Fields(), observe.F("invalidation", r.inval.String()))...)
	return err
}

// Invalidate drops name from the cache.
func (r *Resolver) Invalidate(ctx context.Context, name string) error {
	return r.loader.Invalidate(ctx, name)
}

// InvalidateAll empties the cache.
func (r *Resolver) InvalidateAll(ctx context.Context) error {
	return r.loader.InvalidateAll(ctx)
}

// CacheLen reports the number of cached secrets.
func (r *Resolver) CacheLen() int {
	return r.loader.Cache().Len()
}

// Close empties the cache and releases the backend client. Calls after
// Close return ErrClosed.
func (r *Resolver) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = r.loader.InvalidateAll(context.Background())
	return r.provider.Close()
}

// load runs on a cache miss, once per name at a time.
func (r *Resolver) load(ctx context.Context, name string) (string, error) {
	meta := r.meta(observe.OpGet, name)

	value, err := r.fetch(ctx, meta)
	if err == nil && value != "" {
		if r.kind == KindEnv {
			r.logger.Warn(ctx, "secret read from environment variable; not production safe", meta.Fields()...)
		}
		return value, nil
	}
	if err == nil {
		err = fmt.Errorf("%w: %s backend returned an empty value", ErrNotFound, r.kind)
	}

	if r.policy == PolicyStrict {
		return "", fmt.Errorf("secret %q: %w", name, err)
	}

	fields := append(meta.Fields(), observe.F("error", err))
	if r.kind == KindEnv {
		r.logger.Error(ctx, "secret not found", fields...)
		return "", nil
	}
	if isClientUnavailable(err) {
		r.logger.Error(ctx, "secret backend client unavailable; using environment fallback", fields...)
	} else {
		r.logger.Error(ctx, "secret backend lookup failed; using environment fallback", fields...)
	}
	return r.fallback(ctx, meta), nil
}

func (r *Resolver) fallback(ctx context.Context, meta observe.LookupMeta) string {
	r.metrics.RecordFallback(ctx, meta)

	v, ok := r.lookup(meta.Secret)
	if !ok || v == "" {
		r.logger.Error(ctx, "secret not found in backend or environment", meta.Fields()...)
		return ""
	}
	r.logger.Warn(ctx, "secret served from environment variable fallback; not production safe", meta.Fields()...)
	return v
}

func (r *Resolver) resolveBackend(ctx context.Context, meta observe.LookupMeta) (string, error) {
	var value string
	err := r.exec.Execute(ctx, func(ctx context.Context) error {
		v, err := r.provider.Resolve(ctx, meta.Secret)
		if err != nil {
			return guard(err)
		}
		value = v
		return nil
	})
	return value, err
}

func (r *Resolver) meta(op, name string) observe.LookupMeta {
	return observe.LookupMeta{Provider: r.kind.String(), Operation: op, Secret: name}
}

// guard marks errors that retrying cannot fix.
func guard(err error) error {
	if err != nil && terminal(err) {
		return resilience.Permanent(err)
	}
	return err
}

func validateName(name string) error {
	if err := cache.ValidateKey(name); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidName, name, err)
	}
	return nil
}
