package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdcaccount/pkg/platform/sentinel"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	provider := Static{"cdc/account/access-role": "role-basic"}

	value, err := provider.Get(ctx, "cdc/account/access-role")
	require.NoError(t, err)
	assert.Equal(t, "role-basic", value)

	_, err = provider.Get(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

type stubSecretsAPI struct {
	value *string
	err   error
}

func (s *stubSecretsAPI) GetSecretValue(context.Context, *secretsmanager.GetSecretValueInput, ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: s.value}, nil
}

func TestManagerGet(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves string secret", func(t *testing.T) {
		m := NewManagerWithClient(&stubSecretsAPI{value: aws.String("role-basic")})
		value, err := m.Get(ctx, "cdc/account/access-role")
		require.NoError(t, err)
		assert.Equal(t, "role-basic", value)
	})

	t.Run("wraps client error", func(t *testing.T) {
		m := NewManagerWithClient(&stubSecretsAPI{err: errors.New("access denied")})
		_, err := m.Get(ctx, "key")
		assert.ErrorContains(t, err, "access denied")
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("binary-only secret is not found", func(t *testing.T) {
		m := NewManagerWithClient(&stubSecretsAPI{})
		_, err := m.Get(ctx, "key")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
