package secret

import (
	"context"
	"errors"
	"testing"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"secretref:OPENAI_API_KEY", "OPENAI_API_KEY", true},
		{"secretref:team/db-password.v2", "team/db-password.v2", true},
		{"secretref:", "", false},
		{"secretref:has space", "", false},
		{"Bearer secretref:TOKEN", "", false},
		{"plain", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRef(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseRef(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolver_Expand(t *testing.T) {
	stub := newStub(KindAWS, map[string]string{"TOKEN": "abc", "USER": "svc"})
	r := NewResolver(stub, WithLookup(mapLookup(nil)))
	ctx := context.Background()

	tests := []struct {
		in, want string
	}{
		{"secretref:TOKEN", "abc"},
		{"Bearer secretref:TOKEN", "Bearer abc"},
		{"secretref:USER:secretref:TOKEN", "svc:abc"},
		{"no references", "no references"},
	}
	for _, tt := range tests {
		got, err := r.Expand(ctx, tt.in)
		if err != nil || got != tt.want {
			t.Errorf("Expand(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := r.Expand(ctx, "secretref:MISSING"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expand(missing) error = %v, want ErrNotFound", err)
	}
}

func TestResolver_ExpandMap(t *testing.T) {
	stub := newStub(KindAWS, map[string]string{"TOKEN": "abc"})
	r := NewResolver(stub, WithLookup(mapLookup(nil)))
	ctx := context.Background()

	got, err := r.ExpandMap(ctx, map[string]string{
		"AUTH":  "Bearer secretref:TOKEN",
		"PLAIN": "x",
	})
	if err != nil {
		t.Fatalf("ExpandMap() error = %v", err)
	}
	if got["AUTH"] != "Bearer abc" || got["PLAIN"] != "x" {
		t.Errorf("ExpandMap() = %v", got)
	}

	if _, err := r.ExpandMap(ctx, map[string]string{"BAD": "secretref:NOPE"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("ExpandMap() error = %v, want ErrNotFound", err)
	}
	if got, err := r.ExpandMap(ctx, nil); got != nil || err != nil {
		t.Errorf("ExpandMap(nil) = %v, %v", got, err)
	}
}
