package secret

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// stubProvider is an in-memory Provider and Writer.
type stubProvider struct {
	kind Kind

	mu     sync.Mutex
	values map[string]string
	err    error
	closed bool

	// gate, when set, blocks Resolve until closed.
	gate  chan struct{}
	calls atomic.Int32
}

func newStub(kind Kind, values map[string]string) *stubProvider {
	if values == nil {
		values = make(map[string]string)
	}
	return &stubProvider{kind: kind, values: values}
}

func (s *stubProvider) Kind() Kind { return s.kind }

func (s *stubProvider) Resolve(_ context.Context, name string) (string, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	v, ok := s.values[name]
	if !ok {
		return "", fmt.Errorf("%w: stub %s", ErrNotFound, name)
	}
	return v, nil
}

func (s *stubProvider) Store(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
	return nil
}

func (s *stubProvider) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubProvider) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// readOnlyProvider implements Provider but not Writer.
type readOnlyProvider struct{ Provider }

// fakeSecretsManager implements SecretsManagerAPI.
type fakeSecretsManager struct {
	mu      sync.Mutex
	strings map[string]string
	binary  map[string][]byte
	errCode string
	err     error
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.errCode != "" {
		return nil, &smithy.GenericAPIError{Code: f.errCode, Message: "fake"}
	}
	id := *in.SecretId
	if v, ok := f.strings[id]; ok {
		return &secretsmanager.GetSecretValueOutput{SecretString: &v}, nil
	}
	if b, ok := f.binary[id]; ok {
		return &secretsmanager.GetSecretValueOutput{SecretBinary: b}, nil
	}
	return nil, &smithy.GenericAPIError{Code: awsResourceNotFound, Message: "secret not found"}
}

func (f *fakeSecretsManager) PutSecretValue(_ context.Context, in *secretsmanager.PutSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.strings == nil {
		f.strings = make(map[string]string)
	}
	f.strings[*in.SecretId] = *in.SecretString
	return &secretsmanager.PutSecretValueOutput{}, nil
}

func (f *fakeSecretsManager) ListSecrets(context.Context, *secretsmanager.ListSecretsInput, ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	if f.errCode != "" {
		return nil, &smithy.GenericAPIError{Code: f.errCode, Message: "fake"}
	}
	return &secretsmanager.ListSecretsOutput{}, nil
}

// fakeKeyVault implements KeyVaultAPI.
type fakeKeyVault struct {
	mu     sync.Mutex
	values map[string]string
	status int
}

func (f *fakeKeyVault) GetSecret(_ context.Context, name, _ string, _ *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != 0 {
		return azsecrets.GetSecretResponse{}, responseError(name, f.status, "Forced")
	}
	v, ok := f.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, responseError(name, http.StatusNotFound, "SecretNotFound")
	}
	var resp azsecrets.GetSecretResponse
	resp.Value = &v
	return resp, nil
}

func (f *fakeKeyVault) SetSecret(_ context.Context, name string, p azsecrets.SetSecretParameters, _ *azsecrets.SetSecretOptions) (azsecrets.SetSecretResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[name] = *p.Value
	return azsecrets.SetSecretResponse{}, nil
}

func responseError(name string, code int, errorCode string) *azcore.ResponseError {
	req, _ := http.NewRequest(http.MethodGet, "https://v.vault.azure.net/secrets/"+name, nil)
	return &azcore.ResponseError{
		StatusCode:  code,
		ErrorCode:   errorCode,
		RawResponse: &http.Response{StatusCode: code, Status: http.StatusText(code), Body: http.NoBody, Request: req},
	}
}

// fakeSecretManager implements SecretManagerAPI.
type fakeSecretManager struct {
	mu       sync.Mutex
	values   map[string]string // keyed by version path
	code     codes.Code
	accessed []string
	added    []string
	closes   int
}

func (f *fakeSecretManager) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accessed = append(f.accessed, req.GetName())
	if f.code != codes.OK {
		return nil, status.Error(f.code, "fake")
	}
	v, ok := f.values[req.GetName()]
	if !ok {
		return nil, status.Error(codes.NotFound, "secret not found")
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Name:    req.GetName(),
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(v)},
	}, nil
}

func (f *fakeSecretManager) AddSecretVersion(_ context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, req.GetParent())
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[req.GetParent()+"/versions/latest"] = string(req.GetPayload().GetData())
	return &secretmanagerpb.SecretVersion{Name: req.GetParent() + "/versions/1"}, nil
}

func (f *fakeSecretManager) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}
