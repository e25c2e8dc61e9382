// Package submission assembles the vendor's nested, country-variant account
// schema from the flat AccountInfo record.
package submission

// Submission is the vendor account payload. Two schema versions exist: v2
// moves the Korea consent flags out of the registration block into a
// preferences block and mirrors the marketing consent there.
//
// Invariant: at most one of the country variant blocks is populated.
type Submission struct {
	Identity     *Identity     `json:"identity,omitempty"`
	Registration *Registration `json:"registration,omitempty"`
	Profile      *Profile      `json:"profile,omitempty"`
	Preferences  *Preferences  `json:"preferences,omitempty"`
}

// Identity carries legacy login identifiers.
type Identity struct {
	LegacyUsername string `json:"legacyUsername,omitempty"`
}

// Registration is the registration block with mutually exclusive country
// variants selected by the account country.
type Registration struct {
	Japan          *JapanRegistration `json:"japan,omitempty"`
	China          *ChinaRegistration `json:"china,omitempty"`
	Korea          *KoreaRegistration `json:"korea,omitempty"`
	OpenIDProvider *OpenIDProvider    `json:"openIdProvider,omitempty"`
}

// JapanRegistration is the Japan variant.
type JapanRegistration struct {
	HiraganaName string `json:"hiraganaName,omitempty"`
}

// ChinaRegistration is the China variant. PhoneNumber is only transmitted
// with marketing consent; it stays absent otherwise.
type ChinaRegistration struct {
	Interest    string `json:"interest,omitempty"`
	JobRole     string `json:"jobRole,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// KoreaRegistration is the Korea variant as emitted by schema v1. Schema v2
// replaces these inline flags with Preferences.Korea.
type KoreaRegistration struct {
	ReceiveMarketingInformation bool `json:"receiveMarketingInformation"`
	ThirdPartyTransferAgreed    bool `json:"thirdPartyTransferAgreed"`
}

// OpenIDProvider attaches the federated identity source, present only when
// the account carries an OpenID provider identifier.
type OpenIDProvider struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// Profile is the vendor profile block. City and Work are consent gated.
type Profile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Country   string `json:"country,omitempty"`
	Locale    string `json:"locale,omitempty"`
	City      string `json:"city,omitempty"`
	Work      *Work  `json:"work,omitempty"`
}

// Work is the company block, populated only with marketing consent.
type Work struct {
	Company  string `json:"company,omitempty"`
	Position string `json:"position,omitempty"`
}

// Preferences is the schema v2 consent block.
type Preferences struct {
	Marketing *MarketingPreference `json:"marketing,omitempty"`
	Korea     *KoreaPreferences    `json:"korea,omitempty"`
}

// MarketingPreference mirrors the top-level marketing consent flag.
type MarketingPreference struct {
	Consent ConsentFlag `json:"consent"`
}

// KoreaPreferences is the v2 replacement for the inline Korea consent flags.
type KoreaPreferences struct {
	Marketing          ConsentFlag `json:"marketing"`
	ThirdPartyTransfer ConsentFlag `json:"thirdPartyTransfer"`
}

// ConsentFlag is the vendor's consent leaf.
type ConsentFlag struct {
	IsConsentGranted bool `json:"isConsentGranted"`
}
