package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cdcaccount/internal/cdc"
	"cdcaccount/pkg/domain"
)

func TestFromVendorFlattens(t *testing.T) {
	acct := &cdc.Account{
		UID:           "uid-1",
		IsRegistered:  true,
		IsActive:      true,
		LoginProvider: "oidc",
		Profile: cdc.AccountProfile{
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Country:   "jp",
			City:      "Tokyo",
			Locale:    "ja",
		},
	}
	acct.Data.OpenIDProviderID = "rp-1"
	acct.Data.MarketingConsent = true
	acct.Data.HiraganaName = "えいだ"
	acct.Data.DuplicatedAccountUID = "uid-old"

	info := FromVendor(acct)
	assert.Equal(t, domain.UID("uid-1"), info.UID)
	assert.Equal(t, "ada@example.com", info.Email)
	assert.Equal(t, "Tokyo", info.City)
	assert.Equal(t, "rp-1", info.OpenIDProviderID)
	assert.Equal(t, domain.UID("uid-old"), info.DuplicatedAccountUID)
	assert.True(t, info.MarketingConsent)
	assert.Equal(t, "えいだ", info.HiraganaName)
}

func TestFromVendorEmailFallback(t *testing.T) {
	t.Run("verified wins", func(t *testing.T) {
		acct := &cdc.Account{UID: "u"}
		acct.Emails.Verified = []string{"verified@example.com"}
		acct.Emails.Unverified = []string{"unverified@example.com"}
		assert.Equal(t, "verified@example.com", FromVendor(acct).Email)
	})
	t.Run("unverified last resort", func(t *testing.T) {
		acct := &cdc.Account{UID: "u"}
		acct.Emails.Unverified = []string{"unverified@example.com"}
		assert.Equal(t, "unverified@example.com", FromVendor(acct).Email)
	})
	t.Run("profile email wins over lists", func(t *testing.T) {
		acct := &cdc.Account{UID: "u", Profile: cdc.AccountProfile{Email: "profile@example.com"}}
		acct.Emails.Verified = []string{"verified@example.com"}
		assert.Equal(t, "profile@example.com", FromVendor(acct).Email)
	})
}

func TestIsFederated(t *testing.T) {
	assert.False(t, AccountInfo{LoginProvider: "site"}.IsFederated())
	assert.False(t, AccountInfo{}.IsFederated())
	assert.True(t, AccountInfo{LoginProvider: "oidc"}.IsFederated())
	assert.True(t, AccountInfo{LoginProvider: "saml"}.IsFederated())
}

func TestCountryCode(t *testing.T) {
	_, ok := AccountInfo{Country: "de"}.CountryCode()
	assert.False(t, ok)

	code, ok := AccountInfo{Country: "KR"}.CountryCode()
	assert.True(t, ok)
	assert.Equal(t, domain.CountryKorea, code)
}
