package secret

import (
	"context"
	"fmt"
)

// EnvProvider reads secrets from environment variables named exactly like
// the secret. It is the fallback backend and is not safe for production.
type EnvProvider struct {
	lookup LookupFunc
}

// NewEnvProvider creates an environment backend. A nil lookup uses os.LookupEnv.
func NewEnvProvider(lookup LookupFunc) *EnvProvider {
	return &EnvProvider{lookup: lookup.orDefault()}
}

func (p *EnvProvider) Kind() Kind { return KindEnv }

// Resolve returns the variable's value. An unset or empty variable is
// reported as ErrNotFound.
func (p *EnvProvider) Resolve(_ context.Context, name string) (string, error) {
	v, ok := p.lookup(name)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: environment variable %s", ErrNotFound, name)
	}
	return v, nil
}

// Store is unsupported; the process environment is not a secret store.
func (p *EnvProvider) Store(context.Context, string, string) error {
	return fmt.Errorf("%w: env provider is read-only", ErrUnsupported)
}

func (p *EnvProvider) Close() error { return nil }
