// Package account exposes the lookup and lite-registration operations as a
// single facade for the transport layer.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cdcaccount/internal/account/litereg"
	"cdcaccount/internal/account/resolver"
	"cdcaccount/internal/cdc"
)

// ErrBlankInput rejects empty lookup identifiers at the service boundary,
// before any vendor query string is built.
var ErrBlankInput = fmt.Errorf("identifier cannot be blank")

// Searcher resolves accounts across datacenters.
type Searcher interface {
	Search(ctx context.Context, query string) (resolver.Outcome, error)
	LoginIDAvailable(ctx context.Context, loginID string) (bool, error)
}

// BatchProcessor runs lite-registration batches.
type BatchProcessor interface {
	Process(ctx context.Context, emails []string) ([]litereg.Result, error)
}

// Service is a facade composing focused account services. The HTTP layer
// depends on this unified surface.
type Service struct {
	searcher Searcher
	batches  BatchProcessor
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates the account facade.
func NewService(searcher Searcher, batches BatchProcessor, opts ...Option) (*Service, error) {
	if searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if batches == nil {
		return nil, fmt.Errorf("batch processor is required")
	}

	s := &Service{
		searcher: searcher,
		batches:  batches,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SearchByEmail locates accounts holding email in either datacenter.
func (s *Service) SearchByEmail(ctx context.Context, email string) (resolver.Outcome, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return resolver.Outcome{}, ErrBlankInput
	}
	return s.searcher.Search(ctx, cdc.QueryByEmail(email))
}

// LoginIDAvailable reports whether loginID is unclaimed in every datacenter.
func (s *Service) LoginIDAvailable(ctx context.Context, loginID string) (bool, error) {
	loginID = strings.TrimSpace(loginID)
	if loginID == "" {
		return false, ErrBlankInput
	}
	return s.searcher.LoginIDAvailable(ctx, loginID)
}

// RegisterLiteBatch resolves or creates an account per email.
func (s *Service) RegisterLiteBatch(ctx context.Context, emails []string) ([]litereg.Result, error) {
	return s.batches.Process(ctx, emails)
}
