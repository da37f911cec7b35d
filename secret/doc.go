// Package secret resolves named secrets from a managed secret store.
//
// One backend is selected per process, from configuration or from
// environment signals (see Detect):
//   - AWS Secrets Manager when AWS_REGION or AWS_DEFAULT_REGION is set
//   - Azure Key Vault when AZURE_KEY_VAULT_URL is set
//   - Google Cloud Secret Manager when GCP_PROJECT_ID is set
//   - process environment variables otherwise
//
// Backend clients are built on first use. A client that cannot be built is
// retried on the next lookup.
//
// A Resolver caches non-empty results, collapses concurrent lookups of one
// name into a single backend call, and under the default PolicyFallback
// falls back to the environment variable named like the secret when the
// backend fails. Failures are logged, never returned:
//
//	r, err := secret.New(ctx, secret.Config{})
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//	key, _ := r.Get(ctx, "OPENAI_API_KEY") // "" when not found anywhere
//
// Configuration values may reference secrets with the "secretref:" prefix,
// expanded by Resolver.Expand:
//
//	Authorization: Bearer secretref:OPENAI_API_KEY
package secret
