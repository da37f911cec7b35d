package secret

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRegistry_RegisterAndCreate(t *testing.T) {
	reg := NewRegistry()
	stub := newStub(KindEnv, nil)
	if err := reg.Register(KindEnv, func(context.Context, Config) (Provider, error) { return stub, nil }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	p, err := reg.Create(context.Background(), KindEnv, Config{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p != Provider(stub) {
		t.Errorf("Create() returned %v, want the stub", p)
	}
}

func TestRegistry_RejectsBadRegistrations(t *testing.T) {
	reg := NewRegistry()
	f := func(context.Context, Config) (Provider, error) { return nil, nil }

	if err := reg.Register("", f); err == nil {
		t.Error("Register(empty kind) succeeded")
	}
	if err := reg.Register(KindAWS, nil); err == nil {
		t.Error("Register(nil factory) succeeded")
	}
	if err := reg.Register(KindAWS, f); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(KindAWS, f); err == nil {
		t.Error("duplicate Register() succeeded")
	}
}

func TestRegistry_CreateUnknown(t *testing.T) {
	if _, err := NewRegistry().Create(context.Background(), KindGCP, Config{}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Create() error = %v, want ErrUnknownKind", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := NewDefaultRegistry()
	want := []Kind{KindAWS, KindAzure, KindEnv, KindGCP}
	if got := reg.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	p, err := reg.Create(context.Background(), KindAWS, Config{AWSRegion: "sa-east-1"})
	if err != nil {
		t.Fatalf("Create(aws) error = %v", err)
	}
	if aws, ok := p.(*AWSProvider); !ok || aws.Region() != "sa-east-1" {
		t.Errorf("Create(aws) = %#v", p)
	}

	p, err = reg.Create(context.Background(), KindAzure, Config{AzureVaultURL: "ftp://bad"})
	if !errors.Is(err, ErrInvalidConfig) || p != nil {
		t.Errorf("Create(azure bad url) = %v, %v; want nil provider and ErrInvalidConfig", p, err)
	}
}
