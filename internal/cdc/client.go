// Package cdc is the request/response boundary to the externally hosted
// Customer-Identity platform. The platform is the system of record for
// accounts; nothing here persists account state locally.
package cdc

import (
	"context"

	"cdcaccount/pkg/domain"
)

// Client is the narrow surface of the vendor account API this service
// consumes. Every method issues one blocking call against a single
// datacenter; datacenter fallback is a caller concern (see
// internal/account/resolver).
//
// Non-success vendor responses surface as *APIError. No method retries.
type Client interface {
	// GetAccount fetches the full account record for uid.
	GetAccount(ctx context.Context, dc domain.Datacenter, uid domain.UID) (*Account, error)

	// Search executes a vendor query (see query.go) and returns the raw
	// result list in vendor order.
	Search(ctx context.Context, dc domain.Datacenter, query string) ([]SearchResult, error)

	// IsLoginIDAvailable reports whether loginID is unclaimed in dc.
	IsLoginIDAvailable(ctx context.Context, dc domain.Datacenter, loginID string) (bool, error)

	// RegisterLite creates a minimal email-only placeholder account and
	// returns its vendor-assigned UID.
	RegisterLite(ctx context.Context, dc domain.Datacenter, email string) (domain.UID, error)

	// SetAccountInfo writes the given fields onto an existing account.
	// Zero-valued fields in update are not transmitted.
	SetAccountInfo(ctx context.Context, dc domain.Datacenter, uid domain.UID, update Update) error

	// DisableAccount marks the account inactive. The record remains in the
	// datacenter for traceability; it can no longer log in.
	DisableAccount(ctx context.Context, dc domain.Datacenter, uid domain.UID) error

	// GetRelyingParty fetches the OIDC relying-party description registered
	// under clientID.
	GetRelyingParty(ctx context.Context, clientID string) (*RelyingParty, error)
}

// Account is the vendor's nested account payload as returned by GetAccount.
type Account struct {
	UID           string         `json:"UID"`
	IsRegistered  bool           `json:"isRegistered"`
	IsActive      bool           `json:"isActive"`
	LoginProvider string         `json:"loginProvider"`
	Profile       AccountProfile `json:"profile"`
	Emails        AccountEmails  `json:"emails"`
	Data          AccountData    `json:"data"`
}

// AccountProfile is the vendor profile block shared by accounts and search
// results.
type AccountProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	City      string `json:"city"`
	Locale    string `json:"locale"`
	Timezone  string `json:"timezone"`
}

// AccountEmails lists the verified and unverified addresses attached to an
// account.
type AccountEmails struct {
	Verified   []string `json:"verified"`
	Unverified []string `json:"unverified"`
}

// AccountData is the vendor's free-form data block. Only the fields this
// service reads or writes are declared.
type AccountData struct {
	OpenIDProviderID            string `json:"openIdProviderId"`
	ProviderDescription         string `json:"providerDescription"`
	AccessRole                  string `json:"accessRole"`
	DuplicatedAccountUID        string `json:"duplicatedAccountUid"`
	MarketingConsent            bool   `json:"marketingConsent"`
	ReceiveMarketingInformation bool   `json:"receiveMarketingInformation"`
	ThirdPartyTransferAgreed    bool   `json:"thirdPartyTransferAgreed"`
	Interest                    string `json:"interest"`
	JobRole                     string `json:"jobRole"`
	PhoneNumber                 string `json:"phoneNumber"`
	HiraganaName                string `json:"hiraganaName"`
	Company                     string `json:"company"`
	Position                    string `json:"position"`
}

// SearchResult is one located account as returned by Search, in vendor
// result order. Ordering matters: duplicate selection is first-match-wins
// over this order.
type SearchResult struct {
	UID          string         `json:"UID"`
	IsRegistered bool           `json:"isRegistered"`
	IsActive     bool           `json:"isActive"`
	LoginIDs     LoginIDs       `json:"loginIDs"`
	Profile      AccountProfile `json:"profile"`
}

// LoginIDs groups the identifiers an account can log in with.
type LoginIDs struct {
	Username         string   `json:"username"`
	Emails           []string `json:"emails"`
	UnverifiedEmails []string `json:"unverifiedEmails"`
}

// RelyingParty is the OIDC relying-party record behind an openIdProviderId.
type RelyingParty struct {
	ClientID    string `json:"clientId"`
	Description string `json:"description"`
}

// Update carries the writable account fields this service ever sets through
// SetAccountInfo. Empty fields are omitted from the vendor call, so an
// Update never clears data it does not mention.
type Update struct {
	ProviderDescription  string
	AccessRole           string
	DuplicatedAccountUID domain.UID
}

// IsZero reports whether the update carries no fields at all.
func (u Update) IsZero() bool {
	return u == Update{}
}
