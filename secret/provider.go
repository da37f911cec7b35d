package secret

import (
	"context"
	"fmt"
	"strings"
)

// Kind names a secret backend.
type Kind string

const (
	KindAWS   Kind = "aws"
	KindAzure Kind = "azure"
	KindGCP   Kind = "gcp"
	KindEnv   Kind = "env"
)

// Kinds lists every backend kind in detection order.
func Kinds() []Kind {
	return []Kind{KindAWS, KindAzure, KindGCP, KindEnv}
}

// ParseKind parses a backend name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindAWS, KindAzure, KindGCP, KindEnv:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) String() string { return string(k) }

// Cloud reports whether k is a managed secret store.
func (k Kind) Cloud() bool {
	return k == KindAWS || k == KindAzure || k == KindGCP
}

// Provider fetches secrets from one backend.
//
// Implementations must be safe for concurrent use and must not log secret
// values. Resolve returns an error wrapping ErrNotFound when the backend
// reports the secret absent, and ErrClientUnavailable when the backend
// client could not be constructed.
type Provider interface {
	Kind() Kind
	Resolve(ctx context.Context, name string) (string, error)
	Close() error
}

// Writer is implemented by providers that can store secrets.
type Writer interface {
	Store(ctx context.Context, name, value string) error
}

// Pinger is implemented by providers that can verify their client without
// fetching a secret.
type Pinger interface {
	Ping(ctx context.Context) error
}
