// Package resolver locates accounts across the two vendor datacenters with
// deterministic fallback.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"cdcaccount/internal/cdc"
	"cdcaccount/internal/platform/metrics"
	"cdcaccount/pkg/domain"
)

// SearchClient is the slice of the vendor client the resolver consumes.
type SearchClient interface {
	Search(ctx context.Context, dc domain.Datacenter, query string) ([]cdc.SearchResult, error)
	IsLoginIDAvailable(ctx context.Context, dc domain.Datacenter, loginID string) (bool, error)
}

// Outcome is a query result set tagged with the datacenter that produced it.
// A zero Datacenter means neither datacenter matched.
type Outcome struct {
	Results    []cdc.SearchResult
	Datacenter domain.Datacenter
}

// Empty reports whether no datacenter produced a match.
func (o Outcome) Empty() bool {
	return len(o.Results) == 0
}

// BestMatch applies the duplicate pick rule to the outcome: the first result
// with isRegistered wins, else the first element in vendor order. The rule
// is stable and deterministic; callers correlate on it.
func (o Outcome) BestMatch() (cdc.SearchResult, bool) {
	return BestMatch(o.Results)
}

// BestMatch picks the preferred account from a vendor result list.
func BestMatch(results []cdc.SearchResult) (cdc.SearchResult, bool) {
	if len(results) == 0 {
		return cdc.SearchResult{}, false
	}
	for _, r := range results {
		if r.IsRegistered {
			return r, true
		}
	}
	return results[0], true
}

// Resolver executes vendor queries against the primary datacenter and falls
// back to the secondary only when the primary answered successfully with
// zero matches. Vendor errors never trigger fallback; they surface
// immediately, and the resolver never retries.
type Resolver struct {
	client           SearchClient
	primary          domain.Datacenter
	secondary        domain.Datacenter
	secondaryEnabled bool
	logger           *slog.Logger
	metrics          *metrics.Metrics
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithLogger sets a logger for fallback diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// New creates a Resolver. secondaryEnabled reflects the deployment
// environment predicate; when false the secondary datacenter is never
// contacted.
func New(client SearchClient, primary, secondary domain.Datacenter, secondaryEnabled bool, opts ...Option) (*Resolver, error) {
	if client == nil {
		return nil, fmt.Errorf("search client is required")
	}
	if primary.IsZero() {
		return nil, fmt.Errorf("primary datacenter is required")
	}
	if secondaryEnabled && (secondary.IsZero() || secondary == primary) {
		return nil, fmt.Errorf("secondary lookup requires a distinct secondary datacenter")
	}

	r := &Resolver{
		client:           client,
		primary:          primary,
		secondary:        secondary,
		secondaryEnabled: secondaryEnabled,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Search runs query against the primary datacenter and, on an empty result
// with secondary lookup enabled, against the secondary. The outcome carries
// whichever datacenter matched; both empty yields an untagged empty outcome.
func (r *Resolver) Search(ctx context.Context, query string) (Outcome, error) {
	results, err := r.client.Search(ctx, r.primary, query)
	if err != nil {
		return Outcome{}, err
	}
	if len(results) > 0 {
		return Outcome{Results: results, Datacenter: r.primary}, nil
	}

	if !r.secondaryEnabled {
		return Outcome{}, nil
	}

	if r.metrics != nil {
		r.metrics.IncSecondaryFallback()
	}
	r.logger.DebugContext(ctx, "primary datacenter empty, querying secondary",
		"primary", r.primary, "secondary", r.secondary)

	results, err = r.client.Search(ctx, r.secondary, query)
	if err != nil {
		return Outcome{}, err
	}
	if len(results) > 0 {
		return Outcome{Results: results, Datacenter: r.secondary}, nil
	}
	return Outcome{}, nil
}

// LoginIDAvailable inverts the fallback rule: an id counts as available only
// when both datacenters agree, and a single false short-circuits without
// querying the secondary.
func (r *Resolver) LoginIDAvailable(ctx context.Context, loginID string) (bool, error) {
	available, err := r.client.IsLoginIDAvailable(ctx, r.primary, loginID)
	if err != nil {
		return false, err
	}
	if !available {
		return false, nil
	}

	if !r.secondaryEnabled {
		return true, nil
	}
	return r.client.IsLoginIDAvailable(ctx, r.secondary, loginID)
}

// Primary returns the datacenter the resolver queries first. Lite
// registration creates placeholder accounts there.
func (r *Resolver) Primary() domain.Datacenter {
	return r.primary
}
