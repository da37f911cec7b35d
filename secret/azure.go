package secret

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// KeyVaultAPI is the subset of the Key Vault secrets client used here.
type KeyVaultAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
	SetSecret(ctx context.Context, name string, parameters azsecrets.SetSecretParameters, options *azsecrets.SetSecretOptions) (azsecrets.SetSecretResponse, error)
}

// AzureProvider reads secrets from Azure Key Vault.
type AzureProvider struct {
	vaultURL string
	client   *lazyClient[KeyVaultAPI]
}

// NewAzureProvider creates a Key Vault backend. Credentials come from
// DefaultAzureCredential when the client is first needed. Only an empty URL
// is rejected here; a malformed one fails client construction, so lookups
// reach the environment fallback.
func NewAzureProvider(vaultURL string) (*AzureProvider, error) {
	if strings.TrimSpace(vaultURL) == "" {
		return nil, fmt.Errorf("%w: azure vault URL is empty", ErrInvalidConfig)
	}

	p := &AzureProvider{vaultURL: vaultURL}
	p.client = newLazyClient(KindAzure, func(context.Context) (KeyVaultAPI, error) {
		if err := validateVaultURL(p.vaultURL); err != nil {
			return nil, err
		}
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("azure credential: %w", err)
		}
		c, err := azsecrets.NewClient(p.vaultURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("key vault client: %w", err)
		}
		return c, nil
	})
	return p, nil
}

// NewAzureProviderWithClient creates a Key Vault backend around an existing client.
func NewAzureProviderWithClient(vaultURL string, api KeyVaultAPI) (*AzureProvider, error) {
	if err := validateVaultURL(vaultURL); err != nil {
		return nil, err
	}
	p, err := NewAzureProvider(vaultURL)
	if err != nil {
		return nil, err
	}
	p.client.set(api)
	return p, nil
}

func validateVaultURL(vaultURL string) error {
	u, err := url.Parse(vaultURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: azure vault URL %q", ErrInvalidConfig, vaultURL)
	}
	return nil
}

func (p *AzureProvider) Kind() Kind { return KindAzure }

// VaultURL returns the configured vault.
func (p *AzureProvider) VaultURL() string { return p.vaultURL }

// Resolve returns the latest version of the secret.
func (p *AzureProvider) Resolve(ctx context.Context, name string) (string, error) {
	api, err := p.client.get(ctx)
	if err != nil {
		return "", err
	}

	resp, err := api.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", classifyAzure(err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("%w: azure secret %s has no value", ErrNotFound, name)
	}
	return *resp.Value, nil
}

// Store sets the secret, creating a new version.
func (p *AzureProvider) Store(ctx context.Context, name, value string) error {
	api, err := p.client.get(ctx)
	if err != nil {
		return err
	}
	if _, err := api.SetSecret(ctx, name, azsecrets.SetSecretParameters{Value: &value}, nil); err != nil {
		return classifyAzure(err)
	}
	return nil
}

// Ping builds the client, which resolves credentials. It does not read a
// secret, since Key Vault has no cheap read that works without list access.
func (p *AzureProvider) Ping(ctx context.Context) error {
	_, err := p.client.get(ctx)
	return err
}

// Close releases the client. The Key Vault client holds no resources to free.
func (p *AzureProvider) Close() error {
	p.client.close()
	return nil
}

func classifyAzure(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: azure: %s", ErrNotFound, respErr.ErrorCode)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: azure: %s", ErrAccessDenied, respErr.ErrorCode)
		}
	}
	return fmt.Errorf("azure key vault: %w", err)
}
