package secret_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/designops/secret"
)

func ExampleDetect() {
	env := map[string]string{
		"AZURE_KEY_VAULT_URL": "https://example.vault.azure.net/",
		"GCP_PROJECT_ID":      "acme",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	fmt.Println(secret.Detect(lookup))
	// Output: azure
}

func ExampleResolver_Get() {
	env := map[string]string{"DATABASE_URL": "postgres://localhost/app"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	ctx := context.Background()
	r, err := secret.New(ctx, secret.Config{Lookup: lookup})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer r.Close()

	url, _ := r.Get(ctx, "DATABASE_URL")
	missing, _ := r.Get(ctx, "NOT_SET")
	fmt.Println(r.ProviderName())
	fmt.Println(url)
	fmt.Printf("%q\n", missing)
	// Output:
	// env
	// postgres://localhost/app
	// ""
}

func ExampleMask() {
	fmt.Println(secret.Mask("abcd"))
	// Output: ****
}
