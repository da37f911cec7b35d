package secret

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// RefPrefix marks a value that names a secret instead of holding one.
const RefPrefix = "secretref:"

var inlineRefPattern = regexp.MustCompile(`secretref:([A-Za-z0-9_./-]+)`)

// ParseRef parses a full reference of the form secretref:<name>.
func ParseRef(value string) (name string, ok bool) {
	if !strings.HasPrefix(value, RefPrefix) {
		return "", false
	}
	if inlineRefPattern.FindString(value) != value {
		return "", false
	}
	return strings.TrimPrefix(value, RefPrefix), true
}

// Expand replaces every secretref:<name> in value with the resolved secret.
// Values without references are returned unchanged. A reference that
// resolves to nothing is an error wrapping ErrNotFound.
func (r *Resolver) Expand(ctx context.Context, value string) (string, error) {
	matches := inlineRefPattern.FindAllStringSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return value, nil
	}

	out := value
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		name := out[m[2]:m[3]]

		resolved, err := r.Get(ctx, name)
		if err != nil {
			return "", err
		}
		if resolved == "" {
			return "", fmt.Errorf("%w: reference %s%s", ErrNotFound, RefPrefix, name)
		}
		out = out[:m[0]] + resolved + out[m[1]:]
	}
	return out, nil
}

// ExpandMap expands each value in input.
func (r *Resolver) ExpandMap(ctx context.Context, input map[string]string) (map[string]string, error) {
	if input == nil {
		return nil, nil
	}
	out := make(map[string]string, len(input))
	for k, v := range input {
		expanded, err := r.Expand(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", k, err)
		}
		out[k] = expanded
	}
	return out, nil
}
