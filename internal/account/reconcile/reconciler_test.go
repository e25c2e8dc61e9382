package reconcile

//go:generate mockgen -source=reconciler.go -destination=mocks/mocks.go -package=mocks AccountClient,AccountFinder,RelyingParties,SecretProvider,Notifier,AuditSink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"cdcaccount/internal/account/reconcile/mocks"
	"cdcaccount/internal/account/resolver"
	"cdcaccount/internal/account/submission"
	"cdcaccount/internal/audit"
	"cdcaccount/internal/cdc"
	"cdcaccount/internal/events"
	"cdcaccount/internal/locale"
	"cdcaccount/internal/notify"
	"cdcaccount/pkg/domain"
)

type ReconcilerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ReconcilerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

type reconcilerMocks struct {
	client         *mocks.MockAccountClient
	finder         *mocks.MockAccountFinder
	relyingParties *mocks.MockRelyingParties
	secrets        *mocks.MockSecretProvider
	notifier       *mocks.MockNotifier
	audit          *mocks.MockAuditSink
}

func (s *ReconcilerSuite) newReconciler(t *testing.T) (*Reconciler, reconcilerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	m := reconcilerMocks{
		client:         mocks.NewMockAccountClient(ctrl),
		finder:         mocks.NewMockAccountFinder(ctrl),
		relyingParties: mocks.NewMockRelyingParties(ctrl),
		secrets:        mocks.NewMockSecretProvider(ctrl),
		notifier:       mocks.NewMockNotifier(ctrl),
		audit:          mocks.NewMockAuditSink(ctrl),
	}

	builder, err := submission.NewBuilder(locale.New())
	require.NoError(t, err)

	r, err := New(Params{
		Client:         m.client,
		Finder:         m.finder,
		RelyingParties: m.relyingParties,
		Secrets:        m.secrets,
		Notifier:       m.notifier,
		Audit:          m.audit,
		Builder:        builder,
		Schema:         domain.SchemaV2,
		Primary:        domain.DatacenterUS,
		RoleSecretKey:  "cdc/account/access-role",
	})
	require.NoError(t, err)
	return r, m
}

// localAccount is a site registration with no provider and no email match
// work to do.
func localAccount(uid string) *cdc.Account {
	return &cdc.Account{
		UID:           uid,
		IsRegistered:  true,
		IsActive:      true,
		LoginProvider: "site",
		Profile:       cdc.AccountProfile{Email: uid + "@example.com"},
	}
}

func federatedAccount(uid, email, providerID string) *cdc.Account {
	acct := &cdc.Account{
		UID:           uid,
		IsRegistered:  true,
		IsActive:      true,
		LoginProvider: "oidc",
		Profile:       cdc.AccountProfile{Email: email},
	}
	acct.Data.OpenIDProviderID = providerID
	return acct
}

func (s *ReconcilerSuite) TestLocalAccountSkipsEnrichmentAndDedup() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "uid-1", Datacenter: domain.DatacenterUS}

	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("uid-1")).
		Return(localAccount("uid-1"), nil)
	m.notifier.EXPECT().Send(gomock.Any(), notify.TopicRegistration, gomock.Any()).Return(nil)
	m.notifier.EXPECT().Send(gomock.Any(), notify.TopicAccountInfo, gomock.Any()).Return(nil)
	m.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	final := r.reconcile(s.ctx, ev)
	assert.Equal(s.T(), stateNotified, final)
}

func (s *ReconcilerSuite) TestFederatedRegistrationDisablesDuplicate() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "A", Datacenter: domain.DatacenterUS}

	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("A")).
		Return(federatedAccount("A", "shared@example.com", "rp-1"), nil)

	// Enrichment.
	m.relyingParties.EXPECT().Get(gomock.Any(), "rp-1").
		Return(&cdc.RelyingParty{ClientID: "rp-1", Description: "Partner Portal"}, nil)
	m.secrets.EXPECT().Get(gomock.Any(), "cdc/account/access-role").Return("role-basic", nil)
	m.client.EXPECT().SetAccountInfo(gomock.Any(), domain.DatacenterUS, domain.UID("A"),
		cdc.Update{ProviderDescription: "Partner Portal", AccessRole: "role-basic"}).Return(nil)

	// Dedup: the search returns the new account itself plus an older one.
	// Only the older one is a duplicate candidate.
	m.finder.EXPECT().Search(gomock.Any(), cdc.QueryByEmail("shared@example.com")).
		Return(resolver.Outcome{
			Results: []cdc.SearchResult{
				{UID: "A", IsRegistered: true},
				{UID: "B", IsRegistered: true},
			},
			Datacenter: domain.DatacenterEU,
		}, nil)
	m.client.EXPECT().DisableAccount(gomock.Any(), domain.DatacenterEU, domain.UID("B")).Return(nil)
	m.client.EXPECT().SetAccountInfo(gomock.Any(), domain.DatacenterUS, domain.UID("A"),
		cdc.Update{DuplicatedAccountUID: "B"}).Return(nil)

	var registration, accountInfo notify.Envelope
	m.notifier.EXPECT().Send(gomock.Any(), notify.TopicRegistration, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, envelope notify.Envelope) error {
			registration = envelope
			return nil
		})
	m.notifier.EXPECT().Send(gomock.Any(), notify.TopicAccountInfo, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, envelope notify.Envelope) error {
			accountInfo = envelope
			return nil
		})

	var auditActions []audit.Action
	m.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, event audit.Event) error {
			auditActions = append(auditActions, event.Action)
			return nil
		})

	final := r.reconcile(s.ctx, ev)
	assert.Equal(s.T(), stateNotified, final)

	payload, ok := registration.Data.(registrationPayload)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "A", payload.UID)
	assert.Equal(s.T(), "B", payload.DuplicatedAccountUID)

	// The account-info payload carries the vendor-shaped account including
	// the enriched provider description and access role.
	infoPayload, ok := accountInfo.Data.(accountInfoPayload)
	require.True(s.T(), ok)
	assert.Equal(s.T(), "role-basic", infoPayload.AccessRole)
	require.NotNil(s.T(), infoPayload.Account.Registration)
	require.NotNil(s.T(), infoPayload.Account.Registration.OpenIDProvider)
	assert.Equal(s.T(), "Partner Portal", infoPayload.Account.Registration.OpenIDProvider.Description)

	assert.Equal(s.T(), []audit.Action{audit.ActionDuplicateDisabled, audit.ActionRegistrationReconciled}, auditActions)
}

func (s *ReconcilerSuite) TestSelfOnlyMatchIsNotADuplicate() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "A", Datacenter: domain.DatacenterUS}

	acct := federatedAccount("A", "solo@example.com", "")
	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("A")).Return(acct, nil)
	m.finder.EXPECT().Search(gomock.Any(), cdc.QueryByEmail("solo@example.com")).
		Return(resolver.Outcome{
			Results:    []cdc.SearchResult{{UID: "A", IsRegistered: true}},
			Datacenter: domain.DatacenterUS,
		}, nil)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).Return(nil)
	m.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	final := r.reconcile(s.ctx, ev)
	assert.Equal(s.T(), stateNotified, final)
}

func (s *ReconcilerSuite) TestMissingAccountToleratedAsFailedEvent() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "ghost", Datacenter: domain.DatacenterUS}

	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("ghost")).
		Return(nil, &cdc.APIError{Code: cdc.CodeLoginIDNotFound, Message: "not found"})

	// No audit failure record, no notifications: the event is skipped.
	final := r.reconcile(s.ctx, ev)
	assert.Equal(s.T(), stateFailed, final)
}

func (s *ReconcilerSuite) TestVendorErrorOnFetchFailsEvent() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "uid-1", Datacenter: domain.DatacenterUS}

	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("uid-1")).
		Return(nil, &cdc.APIError{Code: 500028, Message: "backend unavailable"})
	m.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event audit.Event) error {
			assert.Equal(s.T(), audit.ActionReconciliationFailed, event.Action)
			assert.NotEmpty(s.T(), event.Reason)
			return nil
		})

	final := r.reconcile(s.ctx, ev)
	assert.Equal(s.T(), stateFailed, final)
}

func (s *ReconcilerSuite) TestEnrichmentFailureStopsBeforeDedup() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "A", Datacenter: domain.DatacenterUS}

	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("A")).
		Return(federatedAccount("A", "a@example.com", "rp-1"), nil)
	m.relyingParties.EXPECT().Get(gomock.Any(), "rp-1").Return(nil, errors.New("cache down"))
	m.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	// No Search, no DisableAccount, no notifications.
	final := r.reconcile(s.ctx, ev)
	assert.Equal(s.T(), stateFailed, final)
}

func (s *ReconcilerSuite) TestNotificationFailuresAreIndependent() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "uid-1", Datacenter: domain.DatacenterUS}

	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("uid-1")).
		Return(localAccount("uid-1"), nil)
	m.notifier.EXPECT().Send(gomock.Any(), notify.TopicRegistration, gomock.Any()).
		Return(errors.New("broker unreachable"))
	// The second notification is still attempted and the event still lands
	// in the terminal success state.
	m.notifier.EXPECT().Send(gomock.Any(), notify.TopicAccountInfo, gomock.Any()).Return(nil)
	m.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	final := r.reconcile(s.ctx, ev)
	assert.Equal(s.T(), stateNotified, final)
}

func (s *ReconcilerSuite) TestEventWithoutDatacenterUsesPrimary() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "uid-1"}

	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("uid-1")).
		Return(localAccount("uid-1"), nil)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).Return(nil)
	m.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

	r.HandleRegistration(s.ctx, ev)
}

func (s *ReconcilerSuite) TestAuditFailureDoesNotAbort() {
	r, m := s.newReconciler(s.T())
	ev := events.RegistrationEvent{UID: "uid-1", Datacenter: domain.DatacenterUS}

	m.client.EXPECT().GetAccount(gomock.Any(), domain.DatacenterUS, domain.UID("uid-1")).
		Return(localAccount("uid-1"), nil)
	m.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).Return(nil)
	m.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("store down"))

	final := r.reconcile(s.ctx, ev)
	assert.Equal(s.T(), stateNotified, final)
}

func TestNewReconcilerValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	builder, err := submission.NewBuilder(locale.New())
	require.NoError(t, err)

	valid := Params{
		Client:         mocks.NewMockAccountClient(ctrl),
		Finder:         mocks.NewMockAccountFinder(ctrl),
		RelyingParties: mocks.NewMockRelyingParties(ctrl),
		Secrets:        mocks.NewMockSecretProvider(ctrl),
		Notifier:       mocks.NewMockNotifier(ctrl),
		Builder:        builder,
		Schema:         domain.SchemaV2,
		Primary:        domain.DatacenterUS,
		RoleSecretKey:  "key",
	}

	t.Run("audit optional", func(t *testing.T) {
		_, err := New(valid)
		assert.NoError(t, err)
	})

	cases := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"missing client", func(p *Params) { p.Client = nil }},
		{"missing finder", func(p *Params) { p.Finder = nil }},
		{"missing relying parties", func(p *Params) { p.RelyingParties = nil }},
		{"missing secrets", func(p *Params) { p.Secrets = nil }},
		{"missing notifier", func(p *Params) { p.Notifier = nil }},
		{"missing builder", func(p *Params) { p.Builder = nil }},
		{"unknown schema version", func(p *Params) { p.Schema = "" }},
		{"missing primary", func(p *Params) { p.Primary = "" }},
		{"missing role secret key", func(p *Params) { p.RoleSecretKey = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			_, err := New(p)
			assert.Error(t, err)
		})
	}
}
