package secret

import (
	"errors"
	"testing"

	"github.com/jonwraymond/designops/cache"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Kind
	}{
		{"nothing set", nil, KindEnv},
		{"aws region", map[string]string{EnvAWSRegion: "eu-west-1"}, KindAWS},
		{"aws default region", map[string]string{EnvAWSDefaultRegion: "eu-west-1"}, KindAWS},
		{"azure", map[string]string{EnvAzureVaultURL: "https://v.vault.azure.net/"}, KindAzure},
		{"gcp", map[string]string{EnvGCPProjectID: "proj"}, KindGCP},
		{"aws wins over all", map[string]string{
			EnvAWSRegion:     "us-west-2",
			EnvAzureVaultURL: "https://v.vault.azure.net/",
			EnvGCPProjectID:  "proj",
		}, KindAWS},
		{"azure wins over gcp", map[string]string{
			EnvAzureVaultURL: "https://v.vault.azure.net/",
			EnvGCPProjectID:  "proj",
		}, KindAzure},
		{"empty counts as unset", map[string]string{
			EnvAWSRegion:    "",
			EnvGCPProjectID: "proj",
		}, KindGCP},
		{"blank counts as unset", map[string]string{EnvAzureVaultURL: "   "}, KindEnv},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(mapLookup(tt.env)); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(" " + string(k) + " ")
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %q, %v", k, got, err)
		}
	}
	if got, _ := ParseKind("AWS"); got != KindAWS {
		t.Errorf("ParseKind(AWS) = %q, want aws", got)
	}
	if _, err := ParseKind("vault"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(vault) error = %v, want ErrUnknownKind", err)
	}
}

func TestKind_Cloud(t *testing.T) {
	if KindEnv.Cloud() {
		t.Error("env reported as cloud")
	}
	for _, k := range []Kind{KindAWS, KindAzure, KindGCP} {
		if !k.Cloud() {
			t.Errorf("%s not reported as cloud", k)
		}
	}
}

func TestParseFailurePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    FailurePolicy
		wantErr bool
	}{
		{"", PolicyFallback, false},
		{"fallback", PolicyFallback, false},
		{"STRICT", PolicyStrict, false},
		{"loose", PolicyFallback, true},
	}
	for _, tt := range tests {
		got, err := ParseFailurePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFailurePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFailurePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ConfigFromEnv(mapLookup(nil))
		if err != nil {
			t.Fatalf("ConfigFromEnv() error = %v", err)
		}
		if cfg.Kind != KindEnv {
			t.Errorf("Kind = %q, want env", cfg.Kind)
		}
		if cfg.AWSRegion != DefaultAWSRegion {
			t.Errorf("AWSRegion = %q, want %q", cfg.AWSRegion, DefaultAWSRegion)
		}
		if cfg.FailurePolicy != PolicyFallback {
			t.Errorf("FailurePolicy = %v, want fallback", cfg.FailurePolicy)
		}
		if cfg.Cache.Invalidation != cache.InvalidateAll {
			t.Errorf("Invalidation = %v, want all", cfg.Cache.Invalidation)
		}
	})

	t.Run("aws default region used", func(t *testing.T) {
		cfg, err := ConfigFromEnv(mapLookup(map[string]string{EnvAWSDefaultRegion: "ap-south-1"}))
		if err != nil {
			t.Fatalf("ConfigFromEnv() error = %v", err)
		}
		if cfg.Kind != KindAWS || cfg.AWSRegion != "ap-south-1" {
			t.Errorf("got kind %q region %q", cfg.Kind, cfg.AWSRegion)
		}
	})

	t.Run("aws region preferred", func(t *testing.T) {
		cfg, err := ConfigFromEnv(mapLookup(map[string]string{
			EnvAWSRegion:        "eu-central-1",
			EnvAWSDefaultRegion: "ap-south-1",
		}))
		if err != nil {
			t.Fatalf("ConfigFromEnv() error = %v", err)
		}
		if cfg.AWSRegion != "eu-central-1" {
			t.Errorf("AWSRegion = %q, want eu-central-1", cfg.AWSRegion)
		}
	})

	t.Run("explicit provider overrides detection", func(t *testing.T) {
		cfg, err := ConfigFromEnv(mapLookup(map[string]string{
			EnvAWSRegion:        "eu-west-1",
			EnvProviderOverride: "env",
		}))
		if err != nil {
			t.Fatalf("ConfigFromEnv() error = %v", err)
		}
		if cfg.Kind != KindEnv {
			t.Errorf("Kind = %q, want env", cfg.Kind)
		}
	})

	t.Run("cache and policy", func(t *testing.T) {
		cfg, err := ConfigFromEnv(mapLookup(map[string]string{
			EnvCacheCapacity:   "50",
			EnvCacheInvalidate: "key",
			EnvFailurePolicy:   "strict",
		}))
		if err != nil {
			t.Fatalf("ConfigFromEnv() error = %v", err)
		}
		if cfg.Cache.Capacity != 50 || cfg.Cache.Invalidation != cache.InvalidateKey {
			t.Errorf("Cache = %+v", cfg.Cache)
		}
		if cfg.FailurePolicy != PolicyStrict {
			t.Errorf("FailurePolicy = %v, want strict", cfg.FailurePolicy)
		}
	})

	errTests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{"unknown provider", map[string]string{EnvProviderOverride: "vault"}, ErrUnknownKind},
		{"bad capacity", map[string]string{EnvCacheCapacity: "many"}, ErrInvalidConfig},
		{"negative capacity", map[string]string{EnvCacheCapacity: "-1"}, ErrInvalidConfig},
		{"bad policy", map[string]string{EnvFailurePolicy: "loose"}, ErrInvalidConfig},
		{"azure without url", map[string]string{EnvProviderOverride: "azure"}, ErrInvalidConfig},
		{"gcp without project", map[string]string{EnvProviderOverride: "gcp"}, ErrInvalidConfig},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfigFromEnv(mapLookup(tt.env))
			if !errors.Is(err, tt.want) {
				t.Errorf("ConfigFromEnv() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (Config{}).Validate(); err != nil {
		t.Errorf("zero Config error = %v", err)
	}
	if err := (Config{Kind: "vault"}).Validate(); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind error = %v", err)
	}
	if err := (Config{Kind: KindGCP, GCPProjectID: "p"}).Validate(); err != nil {
		t.Errorf("gcp error = %v", err)
	}
}
