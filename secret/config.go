package secret

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jonwraymond/designops/cache"
)

// Environment variables consulted by Detect and ConfigFromEnv.
const (
	EnvAWSRegion        = "AWS_REGION"
	EnvAWSDefaultRegion = "AWS_DEFAULT_REGION"
	EnvAzureVaultURL    = "AZURE_KEY_VAULT_URL"
	EnvGCPProjectID     = "GCP_PROJECT_ID"
	EnvProviderOverride = "SECRET_PROVIDER"
	EnvCacheCapacity    = "SECRET_CACHE_CAPACITY"
	EnvCacheInvalidate  = "SECRET_CACHE_INVALIDATION"
	EnvFailurePolicy    = "SECRET_FAILURE_POLICY"
)

// DefaultAWSRegion is used when neither region variable is set.
const DefaultAWSRegion = "us-east-1"

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

func (f LookupFunc) orDefault() LookupFunc {
	if f == nil {
		return os.LookupEnv
	}
	return f
}

// get returns the value of key, treating set-but-empty as unset.
func (f LookupFunc) get(key string) string {
	v, ok := f.orDefault()(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Detect selects a backend from environment signals, in order:
// AWS_REGION or AWS_DEFAULT_REGION, then AZURE_KEY_VAULT_URL, then
// GCP_PROJECT_ID. With none set it returns KindEnv.
func Detect(lookup LookupFunc) Kind {
	switch {
	case lookup.get(EnvAWSRegion) != "" || lookup.get(EnvAWSDefaultRegion) != "":
		return KindAWS
	case lookup.get(EnvAzureVaultURL) != "":
		return KindAzure
	case lookup.get(EnvGCPProjectID) != "":
		return KindGCP
	default:
		return KindEnv
	}
}

// FailurePolicy decides what Get does when the backend fails.
type FailurePolicy int

const (
	// PolicyFallback logs the failure and reads the environment variable
	// named like the secret. Get never returns an error for a valid name.
	PolicyFallback FailurePolicy = iota
	// PolicyStrict returns backend failures to the caller.
	PolicyStrict
)

func (p FailurePolicy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "fallback"
}

// ParseFailurePolicy parses "fallback" or "strict".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fallback":
		return PolicyFallback, nil
	case "strict":
		return PolicyStrict, nil
	}
	return PolicyFallback, fmt.Errorf("%w: unknown failure policy %q", ErrInvalidConfig, s)
}

// Config selects and configures a backend.
type Config struct {
	// Kind is the backend. Empty means Detect.
	Kind Kind

	// AWSRegion is the Secrets Manager region.
	AWSRegion string

	// AzureVaultURL is the Key Vault URL, e.g. https://myvault.vault.azure.net/.
	AzureVaultURL string

	// GCPProjectID owns the Secret Manager secrets.
	GCPProjectID string

	Cache         cache.Policy
	FailurePolicy FailurePolicy

	// Lookup reads the environment for detection and fallback.
	// Default: os.LookupEnv
	Lookup LookupFunc
}

// ConfigFromEnv builds a Config from environment variables.
// SECRET_PROVIDER overrides detection when set.
func ConfigFromEnv(lookup LookupFunc) (Config, error) {
	lookup = lookup.orDefault()

	cfg := Config{
		AWSRegion:     lookup.get(EnvAWSRegion),
		AzureVaultURL: lookup.get(EnvAzureVaultURL),
		GCPProjectID:  lookup.get(EnvGCPProjectID),
		Lookup:        lookup,
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = lookup.get(EnvAWSDefaultRegion)
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = DefaultAWSRegion
	}

	if v := lookup.get(EnvProviderOverride); v != "" {
		k, err := ParseKind(v)
		if err != nil {
			return Config{}, err
		}
		cfg.Kind = k
	} else {
		cfg.Kind = Detect(lookup)
	}

	if v := lookup.get(EnvCacheCapacity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvCacheCapacity, err)
		}
		cfg.Cache.Capacity = n
	}
	cfg.Cache.Invalidation = cache.ParseInvalidation(lookup.get(EnvCacheInvalidate))

	policy, err := ParseFailurePolicy(lookup.get(EnvFailurePolicy))
	if err != nil {
		return Config{}, err
	}
	cfg.FailurePolicy = policy

	return cfg, cfg.Validate()
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Kind {
	case "", KindEnv, KindAWS:
	case KindAzure:
		if c.AzureVaultURL == "" {
			return fmt.Errorf("%w: azure requires %s", ErrInvalidConfig, EnvAzureVaultURL)
		}
	case KindGCP:
		if c.GCPProjectID == "" {
			return fmt.Errorf("%w: gcp requires %s", ErrInvalidConfig, EnvGCPProjectID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
	return nil
}

func (c Config) region() string {
	if c.AWSRegion == "" {
		return DefaultAWSRegion
	}
	return c.AWSRegion
}
