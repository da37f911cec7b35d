package secret

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// AWS error codes mapped to package sentinels.
const (
	awsResourceNotFound = "ResourceNotFoundException"
	awsAccessDenied     = "AccessDeniedException"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// AWSProvider reads secrets from AWS Secrets Manager.
type AWSProvider struct {
	region string
	client *lazyClient[SecretsManagerAPI]
}

// NewAWSProvider creates an AWS backend for region. Credentials come from
// the default chain when the client is first needed.
func NewAWSProvider(region string) *AWSProvider {
	if region == "" {
		region = DefaultAWSRegion
	}
	p := &AWSProvider{region: region}
	p.client = newLazyClient(KindAWS, func(ctx context.Context) (SecretsManagerAPI, error) {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return secretsmanager.NewFromConfig(cfg), nil
	})
	return p
}

// NewAWSProviderWithClient creates an AWS backend around an existing client.
func NewAWSProviderWithClient(region string, api SecretsManagerAPI) *AWSProvider {
	p := NewAWSProvider(region)
	p.client.set(api)
	return p
}

func (p *AWSProvider) Kind() Kind { return KindAWS }

// Region returns the configured region.
func (p *AWSProvider) Region() string { return p.region }

// Resolve returns SecretString, or SecretBinary as a string.
func (p *AWSProvider) Resolve(ctx context.Context, name string) (string, error) {
	api, err := p.client.get(ctx)
	if err != nil {
		return "", err
	}

	out, err := api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", classifyAWS(err)
	}

	switch {
	case out.SecretString != nil:
		return *out.SecretString, nil
	case out.SecretBinary != nil:
		return string(out.SecretBinary), nil
	default:
		return "", fmt.Errorf("%w: aws secret %s has no value", ErrNotFound, name)
	}
}

// Store writes a new version of an existing secret.
func (p *AWSProvider) Store(ctx context.Context, name, value string) error {
	api, err := p.client.get(ctx)
	if err != nil {
		return err
	}
	_, err = api.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(name),
		SecretString: aws.String(value),
	})
	if err != nil {
		return classifyAWS(err)
	}
	return nil
}

// Ping lists at most one secret to prove the credentials work.
func (p *AWSProvider) Ping(ctx context.Context) error {
	api, err := p.client.get(ctx)
	if err != nil {
		return err
	}
	if _, err := api.ListSecrets(ctx, &secretsmanager.ListSecretsInput{MaxResults: aws.Int32(1)}); err != nil {
		return classifyAWS(err)
	}
	return nil
}

// Close releases the client. The AWS client holds no resources to free.
func (p *AWSProvider) Close() error {
	p.client.close()
	return nil
}

func classifyAWS(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case awsResourceNotFound:
			return fmt.Errorf("%w: aws: %s", ErrNotFound, apiErr.ErrorMessage())
		case awsAccessDenied:
			return fmt.Errorf("%w: aws: %s", ErrAccessDenied, apiErr.ErrorMessage())
		}
	}
	return fmt.Errorf("aws secrets manager: %w", err)
}
