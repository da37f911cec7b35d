package secret

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SecretManagerAPI is the subset of the Secret Manager client used here.
type SecretManagerAPI interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error)
	AddSecretVersion(ctx context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error)
	Close() error
}

// gcpClient drops the call options from the generated client's methods.
type gcpClient struct {
	c *secretmanager.Client
}

func (g gcpClient) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	return g.c.AccessSecretVersion(ctx, req)
}

func (g gcpClient) AddSecretVersion(ctx context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error) {
	return g.c.AddSecretVersion(ctx, req)
}

func (g gcpClient) Close() error { return g.c.Close() }

// GCPProvider reads secrets from Google Cloud Secret Manager.
type GCPProvider struct {
	projectID string
	client    *lazyClient[SecretManagerAPI]
}

// NewGCPProvider creates a Secret Manager backend. Credentials come from
// Application Default Credentials when the client is first needed.
func NewGCPProvider(projectID string) (*GCPProvider, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("%w: gcp project id is empty", ErrInvalidConfig)
	}
	p := &GCPProvider{projectID: projectID}
	p.client = newLazyClient(KindGCP, func(ctx context.Context) (SecretManagerAPI, error) {
		if err := validateProjectID(p.projectID); err != nil {
			return nil, err
		}
		c, err := secretmanager.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("secret manager client: %w", err)
		}
		return gcpClient{c: c}, nil
	})
	return p, nil
}

// NewGCPProviderWithClient creates a Secret Manager backend around an existing client.
func NewGCPProviderWithClient(projectID string, api SecretManagerAPI) (*GCPProvider, error) {
	if err := validateProjectID(projectID); err != nil {
		return nil, err
	}
	p, err := NewGCPProvider(projectID)
	if err != nil {
		return nil, err
	}
	p.client.set(api)
	return p, nil
}

func validateProjectID(projectID string) error {
	if strings.TrimSpace(projectID) == "" || strings.ContainsAny(projectID, "/ ") {
		return fmt.Errorf("%w: gcp project id %q", ErrInvalidConfig, projectID)
	}
	return nil
}

func (p *GCPProvider) Kind() Kind { return KindGCP }

// ProjectID returns the configured project.
func (p *GCPProvider) ProjectID() string { return p.projectID }

// SecretPath returns the resource name of the secret.
func (p *GCPProvider) SecretPath(name string) string {
	return "projects/" + p.projectID + "/secrets/" + name
}

// VersionPath returns the resource name of the secret's latest version.
func (p *GCPProvider) VersionPath(name string) string {
	return p.SecretPath(name) + "/versions/latest"
}

// Resolve returns the latest version's payload.
func (p *GCPProvider) Resolve(ctx context.Context, name string) (string, error) {
	api, err := p.client.get(ctx)
	if err != nil {
		return "", err
	}

	resp, err := api.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: p.VersionPath(name),
	})
	if err != nil {
		return "", classifyGCP(err)
	}
	if resp.GetPayload() == nil {
		return "", fmt.Errorf("%w: gcp secret %s has no payload", ErrNotFound, name)
	}
	return string(resp.GetPayload().GetData()), nil
}

// Store adds a new version to an existing secret.
func (p *GCPProvider) Store(ctx context.Context, name, value string) error {
	api, err := p.client.get(ctx)
	if err != nil {
		return err
	}
	_, err = api.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent:  p.SecretPath(name),
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(value)},
	})
	if err != nil {
		return classifyGCP(err)
	}
	return nil
}

// Ping builds the client, which dials Secret Manager with Application
// Default Credentials.
func (p *GCPProvider) Ping(ctx context.Context) error {
	_, err := p.client.get(ctx)
	return err
}

// Close closes the gRPC connection if one was opened.
func (p *GCPProvider) Close() error {
	if api, ok := p.client.close(); ok && api != nil {
		return api.Close()
	}
	return nil
}

func classifyGCP(err error) error {
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: gcp: %v", ErrNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: gcp: %v", ErrAccessDenied, err)
	}
	return fmt.Errorf("gcp secret manager: %w", err)
}
