// Package reconcile runs the post-registration side effects for one
// registration event: role assignment, OIDC provider enrichment, duplicate
// account suppression, and downstream notification.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cdcaccount/internal/account/models"
	"cdcaccount/internal/account/resolver"
	"cdcaccount/internal/account/submission"
	"cdcaccount/internal/audit"
	"cdcaccount/internal/cdc"
	"cdcaccount/internal/events"
	"cdcaccount/internal/notify"
	"cdcaccount/internal/platform/metrics"
	"cdcaccount/pkg/domain"
)

// AccountClient is the slice of the vendor client reconciliation writes
// through.
type AccountClient interface {
	GetAccount(ctx context.Context, dc domain.Datacenter, uid domain.UID) (*cdc.Account, error)
	SetAccountInfo(ctx context.Context, dc domain.Datacenter, uid domain.UID, update cdc.Update) error
	DisableAccount(ctx context.Context, dc domain.Datacenter, uid domain.UID) error
}

// AccountFinder locates accounts across datacenters for duplicate detection.
type AccountFinder interface {
	Search(ctx context.Context, query string) (resolver.Outcome, error)
}

// RelyingParties resolves OIDC relying-party descriptions.
type RelyingParties interface {
	Get(ctx context.Context, clientID string) (*cdc.RelyingParty, error)
}

// SecretProvider resolves the access-role secret during enrichment.
type SecretProvider interface {
	Get(ctx context.Context, key string) (string, error)
}

// Notifier dispatches downstream event envelopes.
type Notifier interface {
	Send(ctx context.Context, topic string, envelope notify.Envelope) error
}

// AuditSink records reconciliation decisions.
type AuditSink interface {
	Emit(ctx context.Context, event audit.Event) error
}

// state tracks one registration event through the reconciliation machine.
// notified and failed are terminal.
type state string

const (
	stateReceived state = "received"
	stateEnriched state = "enriched"
	stateDeduped  state = "deduped"
	stateNotified state = "notified"
	stateFailed   state = "failed"
)

// Envelope types shared with downstream consumers.
const (
	eventTypeRegistration = "accountRegistered"
	eventTypeAccountInfo  = "accountInfoUpdated"
)

// Params wires a Reconciler. Audit is optional; everything else is required.
type Params struct {
	Client         AccountClient
	Finder         AccountFinder
	RelyingParties RelyingParties
	Secrets        SecretProvider
	Notifier       Notifier
	Audit          AuditSink

	// Builder shapes the account-info notification payload into the vendor
	// submission schema at the configured version.
	Builder *submission.Builder
	Schema  domain.SchemaVersion

	// Primary is the datacenter assumed for events that arrive without a
	// datacenter tag.
	Primary domain.Datacenter

	// RoleSecretKey names the secrets entry holding the access-role
	// identifier stamped onto OIDC-enriched accounts.
	RoleSecretKey string
}

// Reconciler is invoked per registration event from the background event
// worker. No caller waits on it, so failures terminate the event instead of
// propagating.
type Reconciler struct {
	client         AccountClient
	finder         AccountFinder
	relyingParties RelyingParties
	secrets        SecretProvider
	notifier       Notifier
	audit          AuditSink
	builder        *submission.Builder
	schema         domain.SchemaVersion
	primary        domain.Datacenter
	roleSecretKey  string
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// Option configures the Reconciler.
type Option func(*Reconciler)

// WithLogger sets a logger for reconciliation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// New creates a Reconciler.
func New(p Params, opts ...Option) (*Reconciler, error) {
	if p.Client == nil {
		return nil, fmt.Errorf("account client is required")
	}
	if p.Finder == nil {
		return nil, fmt.Errorf("account finder is required")
	}
	if p.RelyingParties == nil {
		return nil, fmt.Errorf("relying party getter is required")
	}
	if p.Secrets == nil {
		return nil, fmt.Errorf("secret provider is required")
	}
	if p.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if p.Builder == nil {
		return nil, fmt.Errorf("submission builder is required")
	}
	if _, err := domain.ParseSchemaVersion(p.Schema.String()); err != nil {
		return nil, fmt.Errorf("schema version is required: %w", err)
	}
	if p.Primary.IsZero() {
		return nil, fmt.Errorf("primary datacenter is required")
	}
	if p.RoleSecretKey == "" {
		return nil, fmt.Errorf("role secret key is required")
	}

	r := &Reconciler{
		client:         p.Client,
		finder:         p.Finder,
		relyingParties: p.RelyingParties,
		secrets:        p.Secrets,
		notifier:       p.Notifier,
		audit:          p.Audit,
		builder:        p.Builder,
		schema:         p.Schema,
		primary:        p.Primary,
		roleSecretKey:  p.RoleSecretKey,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// HandleRegistration implements events.Handler. It never panics or returns:
// the registration already succeeded upstream, so every failure here is
// terminal for the event only.
func (r *Reconciler) HandleRegistration(ctx context.Context, ev events.RegistrationEvent) {
	final := r.reconcile(ctx, ev)
	if r.metrics != nil {
		r.metrics.IncReconcileOutcome(string(final))
	}
}

func (r *Reconciler) reconcile(ctx context.Context, ev events.RegistrationEvent) state {
	dc := ev.Datacenter
	if dc.IsZero() {
		dc = r.primary
	}

	// RECEIVED: a registration event for an account the vendor no longer
	// knows is tolerated, not fatal.
	acct, err := r.client.GetAccount(ctx, dc, ev.UID)
	if err != nil {
		if cdc.IsKind(err, cdc.KindLoginIDNotFound) {
			r.logger.WarnContext(ctx, "registered account not found, skipping reconciliation",
				"uid", ev.UID, "datacenter", dc)
			return stateFailed
		}
		return r.fail(ctx, ev, dc, stateReceived, err)
	}
	info := models.FromVendor(acct)

	if st, err := r.enrich(ctx, dc, &info); err != nil {
		return r.fail(ctx, ev, dc, st, err)
	}

	if st, err := r.dedupe(ctx, dc, &info); err != nil {
		return r.fail(ctx, ev, dc, st, err)
	}

	r.dispatch(ctx, dc, info)
	r.emitAudit(ctx, audit.Event{
		UID:          info.UID,
		Action:       audit.ActionRegistrationReconciled,
		Datacenter:   dc,
		Email:        info.Email,
		DuplicateUID: info.DuplicatedAccountUID,
	})
	return stateNotified
}

// enrich writes the relying-party description and access role onto accounts
// carrying an OpenID provider id. Accounts without one skip the step
// entirely; no vendor or secrets call is made.
func (r *Reconciler) enrich(ctx context.Context, dc domain.Datacenter, info *models.AccountInfo) (state, error) {
	providerID := strings.TrimSpace(info.OpenIDProviderID)
	if providerID == "" {
		return stateEnriched, nil
	}

	rp, err := r.relyingParties.Get(ctx, providerID)
	if err != nil {
		return stateReceived, fmt.Errorf("fetch relying party %q: %w", providerID, err)
	}
	role, err := r.secrets.Get(ctx, r.roleSecretKey)
	if err != nil {
		return stateReceived, fmt.Errorf("fetch access role: %w", err)
	}

	update := cdc.Update{ProviderDescription: rp.Description, AccessRole: role}
	if err := r.client.SetAccountInfo(ctx, dc, info.UID, update); err != nil {
		return stateReceived, fmt.Errorf("write enrichment: %w", err)
	}

	info.ProviderDescription = rp.Description
	info.AccessRole = role
	return stateEnriched, nil
}

// dedupe suppresses pre-existing accounts sharing the new account's email.
// Only federated registrations deduplicate; local accounts skip the step
// unconditionally.
func (r *Reconciler) dedupe(ctx context.Context, dc domain.Datacenter, info *models.AccountInfo) (state, error) {
	if !info.IsFederated() || info.Email == "" {
		return stateDeduped, nil
	}

	outcome, err := r.finder.Search(ctx, cdc.QueryByEmail(info.Email))
	if err != nil {
		return stateEnriched, fmt.Errorf("search duplicates for %q: %w", info.Email, err)
	}

	others := make([]cdc.SearchResult, 0, len(outcome.Results))
	for _, res := range outcome.Results {
		if domain.UID(res.UID) != info.UID {
			others = append(others, res)
		}
	}
	dup, ok := resolver.BestMatch(others)
	if !ok {
		return stateDeduped, nil
	}

	dupUID := domain.UID(dup.UID)
	if err := r.client.DisableAccount(ctx, outcome.Datacenter, dupUID); err != nil {
		return stateEnriched, fmt.Errorf("disable duplicate %s: %w", dupUID, err)
	}
	if err := r.client.SetAccountInfo(ctx, dc, info.UID, cdc.Update{DuplicatedAccountUID: dupUID}); err != nil {
		return stateEnriched, fmt.Errorf("stamp duplicate uid: %w", err)
	}
	info.DuplicatedAccountUID = dupUID

	if r.metrics != nil {
		r.metrics.IncDuplicateSuppressed()
	}
	r.emitAudit(ctx, audit.Event{
		UID:          info.UID,
		Action:       audit.ActionDuplicateDisabled,
		Datacenter:   outcome.Datacenter,
		Email:        info.Email,
		DuplicateUID: dupUID,
	})
	r.logger.InfoContext(ctx, "duplicate account disabled",
		"uid", info.UID, "duplicateUID", dupUID, "datacenter", outcome.Datacenter)
	return stateDeduped, nil
}

// dispatch sends the two downstream notifications. They are independent,
// not transactional: a failure on one is logged and the other is still
// attempted.
func (r *Reconciler) dispatch(ctx context.Context, dc domain.Datacenter, info models.AccountInfo) {
	r.send(ctx, notify.TopicRegistration, notify.Envelope{
		Type: eventTypeRegistration,
		Data: registrationPayload{
			UID:                  info.UID.String(),
			Email:                info.Email,
			LoginProvider:        info.LoginProvider,
			DuplicatedAccountUID: info.DuplicatedAccountUID.String(),
			Datacenter:           dc.String(),
		},
	})
	r.send(ctx, notify.TopicAccountInfo, notify.Envelope{
		Type: eventTypeAccountInfo,
		Data: accountInfoPayload{
			UID:        info.UID.String(),
			Email:      info.Email,
			AccessRole: info.AccessRole,
			Account:    r.builder.Build(info, r.schema),
		},
	})
}

func (r *Reconciler) send(ctx context.Context, topic string, envelope notify.Envelope) {
	if err := r.notifier.Send(ctx, topic, envelope); err != nil {
		r.logger.ErrorContext(ctx, "notification failed",
			"topic", topic, "type", envelope.Type, "error", err)
		if r.metrics != nil {
			r.metrics.IncNotificationFailure()
		}
	}
}

func (r *Reconciler) fail(ctx context.Context, ev events.RegistrationEvent, dc domain.Datacenter, reached state, err error) state {
	r.logger.ErrorContext(ctx, "registration reconciliation aborted",
		"uid", ev.UID, "datacenter", dc, "reached", reached, "error", err)
	r.emitAudit(ctx, audit.Event{
		UID:        ev.UID,
		Action:     audit.ActionReconciliationFailed,
		Datacenter: dc,
		Reason:     err.Error(),
	})
	return stateFailed
}

func (r *Reconciler) emitAudit(ctx context.Context, event audit.Event) {
	if r.audit == nil {
		return
	}
	if err := r.audit.Emit(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

// registrationPayload is the registration-event notification contract.
type registrationPayload struct {
	UID                  string `json:"uid"`
	Email                string `json:"email"`
	LoginProvider        string `json:"loginProvider,omitempty"`
	DuplicatedAccountUID string `json:"duplicatedAccountUid,omitempty"`
	Datacenter           string `json:"datacenter"`
}

// accountInfoPayload is the account-info notification contract. The account
// body is the vendor submission schema so consumers see the same shape the
// vendor stores.
type accountInfoPayload struct {
	UID        string                `json:"uid"`
	Email      string                `json:"email"`
	AccessRole string                `json:"accessRole,omitempty"`
	Account    submission.Submission `json:"account"`
}
