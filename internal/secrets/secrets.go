// Package secrets resolves operational secrets, notably the access-role
// identifier written onto OIDC-enriched accounts.
package secrets

import (
	"context"
	"fmt"

	"cdcaccount/pkg/platform/sentinel"
)

// Provider resolves a secret value by key.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
}

// Static is an in-memory Provider for tests and local development.
type Static map[string]string

// Get implements Provider.
func (s Static) Get(_ context.Context, key string) (string, error) {
	value, ok := s[key]
	if !ok {
		return "", fmt.Errorf("secret %q: %w", key, sentinel.ErrNotFound)
	}
	return value, nil
}
