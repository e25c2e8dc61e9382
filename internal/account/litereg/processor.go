// Package litereg processes batch lite-registration requests: for each
// email, resolve an existing account across datacenters or create a minimal
// placeholder account.
package litereg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cdcaccount/internal/account/resolver"
	"cdcaccount/internal/cdc"
	"cdcaccount/internal/platform/metrics"
	"cdcaccount/pkg/domain"
)

// ErrBlankEmail rejects the whole batch before any vendor call is made.
// Blank entries are a caller bug, not a per-item runtime failure.
var ErrBlankEmail = errors.New("email list contains a blank entry")

// Result is one batch item outcome. The result list is always the same
// length and order as the input list; downstream callers correlate results
// to emails positionally.
type Result struct {
	Email        string            `json:"email"`
	UID          domain.UID        `json:"uid,omitempty"`
	Username     string            `json:"username,omitempty"`
	Registered   bool              `json:"registered"`
	Datacenter   domain.Datacenter `json:"datacenter,omitempty"`
	ErrorCode    int               `json:"errorCode,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// Failed reports whether this item carries a failure instead of an account.
func (r Result) Failed() bool {
	return r.ErrorCode != cdc.CodeSuccess
}

// AccountFinder resolves existing accounts across datacenters.
type AccountFinder interface {
	Search(ctx context.Context, query string) (resolver.Outcome, error)
}

// Registrar creates lite placeholder accounts.
type Registrar interface {
	RegisterLite(ctx context.Context, dc domain.Datacenter, email string) (domain.UID, error)
}

// Processor runs a lite-registration batch strictly sequentially. Isolation
// is achieved through per-item failure capture, not independent tasks: one
// email's vendor failure never aborts the rest of the batch.
type Processor struct {
	finder    AccountFinder
	registrar Registrar
	primary   domain.Datacenter
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures the Processor.
type Option func(*Processor)

// WithLogger sets a logger for per-item failure diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

// New creates a Processor. New lite accounts are always created in the
// primary datacenter.
func New(finder AccountFinder, registrar Registrar, primary domain.Datacenter, opts ...Option) (*Processor, error) {
	if finder == nil {
		return nil, fmt.Errorf("account finder is required")
	}
	if registrar == nil {
		return nil, fmt.Errorf("registrar is required")
	}
	if primary.IsZero() {
		return nil, fmt.Errorf("primary datacenter is required")
	}

	p := &Processor{
		finder:    finder,
		registrar: registrar,
		primary:   primary,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process resolves or creates an account per email. The precondition check
// runs over the whole list first so a malformed batch fails before any
// vendor I/O.
func (p *Processor) Process(ctx context.Context, emails []string) ([]Result, error) {
	if len(emails) == 0 {
		return nil, fmt.Errorf("at least one email is required")
	}
	for i, email := range emails {
		if strings.TrimSpace(email) == "" {
			return nil, fmt.Errorf("%w (index %d)", ErrBlankEmail, i)
		}
	}

	results := make([]Result, 0, len(emails))
	for _, email := range emails {
		results = append(results, p.processOne(ctx, email))
	}
	return results, nil
}

func (p *Processor) processOne(ctx context.Context, email string) Result {
	outcome, err := p.finder.Search(ctx, cdc.QueryByLoginID(email))
	if err != nil {
		return p.failure(ctx, email, err)
	}

	if !outcome.Empty() {
		best, _ := outcome.BestMatch()
		if p.metrics != nil {
			p.metrics.IncLiteRegistration("existing")
		}
		return Result{
			Email:      email,
			UID:        domain.UID(best.UID),
			Username:   best.LoginIDs.Username,
			Registered: best.IsRegistered,
			Datacenter: outcome.Datacenter,
		}
	}

	uid, err := p.registrar.RegisterLite(ctx, p.primary, email)
	if err != nil {
		return p.failure(ctx, email, err)
	}
	if p.metrics != nil {
		p.metrics.IncLiteRegistration("created")
	}
	return Result{
		Email:      email,
		UID:        uid,
		Registered: false,
		Datacenter: p.primary,
	}
}

// failure converts any error into a per-item failure result. Vendor errors
// keep their code and message; anything else maps to the generic server
// error code.
func (p *Processor) failure(ctx context.Context, email string, err error) Result {
	result := Result{
		Email:        email,
		ErrorCode:    cdc.CodeGeneralServerError,
		ErrorMessage: err.Error(),
	}

	var apiErr *cdc.APIError
	if errors.As(err, &apiErr) {
		result.ErrorCode = apiErr.Code
		result.ErrorMessage = apiErr.Message
	}

	p.logger.WarnContext(ctx, "lite registration item failed",
		"email", email, "code", result.ErrorCode, "error", err)
	if p.metrics != nil {
		p.metrics.IncLiteRegistration("failed")
	}
	return result
}
