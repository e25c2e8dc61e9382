package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"cdcaccount/pkg/platform/sentinel"
)

// secretsAPI is the slice of the Secrets Manager client we call; narrowed
// for test doubles.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, input *secretsmanager.GetSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Manager implements Provider on AWS Secrets Manager.
type Manager struct {
	client secretsAPI
}

// NewManager builds a Manager from the ambient AWS configuration.
func NewManager(ctx context.Context) (*Manager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Manager{client: secretsmanager.NewFromConfig(cfg)}, nil
}

// NewManagerWithClient wires an explicit client; used by tests.
func NewManagerWithClient(client secretsAPI) *Manager {
	return &Manager{client: client}
}

// Get implements Provider.
func (m *Manager) Get(ctx context.Context, key string) (string, error) {
	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("get secret %q: %w (%w)", key, err, sentinel.ErrUnavailable)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %q has no string value: %w", key, sentinel.ErrNotFound)
	}
	return *out.SecretString, nil
}
