// Package models holds the canonical flat account record. The vendor schema
// is deeply nested and country-variant; everything nested is flattened here
// once, at the boundary, so business logic never branches on nested
// nullability.
package models

import (
	"cdcaccount/internal/cdc"
	"cdcaccount/pkg/domain"
)

// loginProviderSite is the vendor's marker for local username/password
// accounts. Anything else is a federated identity source.
const loginProviderSite = "site"

// AccountInfo is the canonical flat internal account record. It is created
// from a vendor response or from an inbound registration request, mutated
// only by reconciliation (duplicate UID and provider description stamps),
// and never persisted locally: the vendor platform is system of record.
type AccountInfo struct {
	UID      domain.UID
	Username string
	Email    string

	FirstName string
	LastName  string
	Country   string
	City      string
	Locale    string
	Timezone  string

	Company  string
	Position string

	// Federation
	LoginProvider        string
	OpenIDProviderID     string
	ProviderDescription  string
	AccessRole           string
	DuplicatedAccountUID domain.UID

	IsRegistered bool
	IsActive     bool

	// Consents
	MarketingConsent bool

	// Korea
	ReceiveMarketingInformation bool
	ThirdPartyTransferAgreed    bool

	// China
	Interest    string
	JobRole     string
	PhoneNumber string

	// Japan
	HiraganaName string
}

// FromVendor flattens a vendor account payload into an AccountInfo.
func FromVendor(acct *cdc.Account) AccountInfo {
	info := AccountInfo{
		UID:                         domain.UID(acct.UID),
		Email:                       acct.Profile.Email,
		FirstName:                   acct.Profile.FirstName,
		LastName:                    acct.Profile.LastName,
		Country:                     acct.Profile.Country,
		City:                        acct.Profile.City,
		Locale:                      acct.Profile.Locale,
		Timezone:                    acct.Profile.Timezone,
		Company:                     acct.Data.Company,
		Position:                    acct.Data.Position,
		LoginProvider:               acct.LoginProvider,
		OpenIDProviderID:            acct.Data.OpenIDProviderID,
		ProviderDescription:         acct.Data.ProviderDescription,
		AccessRole:                  acct.Data.AccessRole,
		DuplicatedAccountUID:        domain.UID(acct.Data.DuplicatedAccountUID),
		IsRegistered:                acct.IsRegistered,
		IsActive:                    acct.IsActive,
		MarketingConsent:            acct.Data.MarketingConsent,
		ReceiveMarketingInformation: acct.Data.ReceiveMarketingInformation,
		ThirdPartyTransferAgreed:    acct.Data.ThirdPartyTransferAgreed,
		Interest:                    acct.Data.Interest,
		JobRole:                     acct.Data.JobRole,
		PhoneNumber:                 acct.Data.PhoneNumber,
		HiraganaName:                acct.Data.HiraganaName,
	}
	if info.Email == "" && len(acct.Emails.Verified) > 0 {
		info.Email = acct.Emails.Verified[0]
	}
	if info.Email == "" && len(acct.Emails.Unverified) > 0 {
		info.Email = acct.Emails.Unverified[0]
	}
	return info
}

// IsFederated reports whether the account logs in through an external
// SSO/OIDC identity source rather than a local password.
func (a AccountInfo) IsFederated() bool {
	return a.LoginProvider != "" && a.LoginProvider != loginProviderSite
}

// CountryCode matches the account country against the variant country table.
func (a AccountInfo) CountryCode() (domain.CountryCode, bool) {
	return domain.ParseCountryCode(a.Country)
}
