package submission

import (
	"fmt"
	"strings"

	"cdcaccount/internal/account/models"
	"cdcaccount/pkg/domain"
)

// LocaleNormalizer canonicalizes locale names. Malformed input normalizes to
// "", which the builder accepts and omits from the profile block.
type LocaleNormalizer interface {
	Normalize(name string) string
}

// Builder converts a flat AccountInfo into a vendor Submission. Build is a
// pure function over its inputs: no I/O, and no failure mode for well-formed
// records (a missing or unrecognized country simply yields no variant block).
type Builder struct {
	locales LocaleNormalizer
}

// NewBuilder creates a Builder.
func NewBuilder(locales LocaleNormalizer) (*Builder, error) {
	if locales == nil {
		return nil, fmt.Errorf("locale normalizer is required")
	}
	return &Builder{locales: locales}, nil
}

// variantFunc populates one country variant on the submission. Registered in
// variantBuilders; adding a country means adding one entry, not editing a
// conditional chain.
type variantFunc func(acct models.AccountInfo, version domain.SchemaVersion, sub *Submission)

var variantBuilders = map[domain.CountryCode]variantFunc{
	domain.CountryJapan: buildJapanVariant,
	domain.CountryChina: buildChinaVariant,
	domain.CountryKorea: buildKoreaVariant,
}

// Build assembles the submission for the given schema version.
func (b *Builder) Build(acct models.AccountInfo, version domain.SchemaVersion) Submission {
	sub := Submission{}

	if acct.Username != "" {
		sub.Identity = &Identity{LegacyUsername: acct.Username}
	}

	if version.AtLeast(domain.SchemaV2) {
		sub.Preferences = &Preferences{
			Marketing: &MarketingPreference{
				Consent: ConsentFlag{IsConsentGranted: acct.MarketingConsent},
			},
		}
	}

	sub.Registration = &Registration{}
	if country, ok := acct.CountryCode(); ok {
		variantBuilders[country](acct, version, &sub)
	}
	if providerID := strings.TrimSpace(acct.OpenIDProviderID); providerID != "" {
		sub.Registration.OpenIDProvider = &OpenIDProvider{
			ID:          providerID,
			Description: acct.ProviderDescription,
		}
	}
	if *sub.Registration == (Registration{}) {
		sub.Registration = nil
	}

	sub.Profile = b.buildProfile(acct)

	return sub
}

// buildProfile applies the field-level consent gates: city and the work
// block require marketing consent regardless of country.
func (b *Builder) buildProfile(acct models.AccountInfo) *Profile {
	profile := Profile{
		FirstName: acct.FirstName,
		LastName:  acct.LastName,
		Country:   acct.Country,
		Locale:    b.locales.Normalize(acct.Locale),
	}
	if acct.MarketingConsent {
		profile.City = acct.City
		if acct.Company != "" || acct.Position != "" {
			profile.Work = &Work{Company: acct.Company, Position: acct.Position}
		}
	}
	if profile == (Profile{}) {
		return nil
	}
	return &profile
}

func buildJapanVariant(acct models.AccountInfo, _ domain.SchemaVersion, sub *Submission) {
	sub.Registration.Japan = &JapanRegistration{HiraganaName: acct.HiraganaName}
}

func buildChinaVariant(acct models.AccountInfo, _ domain.SchemaVersion, sub *Submission) {
	china := &ChinaRegistration{
		Interest: acct.Interest,
		JobRole:  acct.JobRole,
	}
	// Phone number is transmitted only with marketing consent.
	if acct.MarketingConsent {
		china.PhoneNumber = acct.PhoneNumber
	}
	sub.Registration.China = china
}

func buildKoreaVariant(acct models.AccountInfo, version domain.SchemaVersion, sub *Submission) {
	if version.AtLeast(domain.SchemaV2) {
		sub.Preferences.Korea = &KoreaPreferences{
			Marketing:          ConsentFlag{IsConsentGranted: acct.ReceiveMarketingInformation},
			ThirdPartyTransfer: ConsentFlag{IsConsentGranted: acct.ThirdPartyTransferAgreed},
		}
		return
	}
	sub.Registration.Korea = &KoreaRegistration{
		ReceiveMarketingInformation: acct.ReceiveMarketingInformation,
		ThirdPartyTransferAgreed:    acct.ThirdPartyTransferAgreed,
	}
}
