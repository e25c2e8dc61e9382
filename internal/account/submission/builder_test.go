package submission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"cdcaccount/internal/account/models"
	"cdcaccount/pkg/domain"
)

// passthroughLocales returns locale names unchanged so tests pin submission
// shape without depending on the real normalizer.
type passthroughLocales struct{}

func (passthroughLocales) Normalize(name string) string { return name }

type BuilderSuite struct {
	suite.Suite
	builder *Builder
}

func (s *BuilderSuite) SetupSuite() {
	builder, err := NewBuilder(passthroughLocales{})
	require.NoError(s.T(), err)
	s.builder = builder
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func TestNewBuilderRequiresNormalizer(t *testing.T) {
	_, err := NewBuilder(nil)
	assert.Error(t, err)
}

func (s *BuilderSuite) TestConsentGatesProfileFields() {
	acct := models.AccountInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Country:   "jp",
		City:      "Tokyo",
		Company:   "Analytical Engines",
		Position:  "Engineer",
	}

	s.Run("without consent", func() {
		sub := s.builder.Build(acct, domain.SchemaV1)
		require.NotNil(s.T(), sub.Profile)
		assert.Empty(s.T(), sub.Profile.City)
		assert.Nil(s.T(), sub.Profile.Work)
	})

	s.Run("with consent", func() {
		withConsent := acct
		withConsent.MarketingConsent = true
		sub := s.builder.Build(withConsent, domain.SchemaV1)
		require.NotNil(s.T(), sub.Profile)
		assert.Equal(s.T(), "Tokyo", sub.Profile.City)
		require.NotNil(s.T(), sub.Profile.Work)
		assert.Equal(s.T(), "Analytical Engines", sub.Profile.Work.Company)
		assert.Equal(s.T(), "Engineer", sub.Profile.Work.Position)
	})
}

func (s *BuilderSuite) TestChinaPhoneNumberRequiresConsent() {
	acct := models.AccountInfo{
		Country:     "cn",
		Interest:    "cloud",
		JobRole:     "developer",
		PhoneNumber: "+86-10-0000-0000",
	}

	sub := s.builder.Build(acct, domain.SchemaV1)
	require.NotNil(s.T(), sub.Registration)
	require.NotNil(s.T(), sub.Registration.China)
	assert.Equal(s.T(), "cloud", sub.Registration.China.Interest)
	assert.Empty(s.T(), sub.Registration.China.PhoneNumber)

	acct.MarketingConsent = true
	sub = s.builder.Build(acct, domain.SchemaV1)
	require.NotNil(s.T(), sub.Registration.China)
	assert.Equal(s.T(), "+86-10-0000-0000", sub.Registration.China.PhoneNumber)
}

func (s *BuilderSuite) TestAtMostOneVariant() {
	countries := map[string]func(sub Submission) bool{
		"jp": func(sub Submission) bool { return sub.Registration.Japan != nil },
		"cn": func(sub Submission) bool { return sub.Registration.China != nil },
		"kr": func(sub Submission) bool { return sub.Registration.Korea != nil },
	}
	for country, populated := range countries {
		s.Run(country, func() {
			sub := s.builder.Build(models.AccountInfo{Country: country, HiraganaName: "x", Interest: "x"}, domain.SchemaV1)
			require.NotNil(s.T(), sub.Registration)
			assert.True(s.T(), populated(sub))

			variants := 0
			for _, present := range []bool{
				sub.Registration.Japan != nil,
				sub.Registration.China != nil,
				sub.Registration.Korea != nil,
			} {
				if present {
					variants++
				}
			}
			assert.Equal(s.T(), 1, variants)
		})
	}
}

func (s *BuilderSuite) TestUnknownCountryYieldsNoRegistration() {
	sub := s.builder.Build(models.AccountInfo{Country: "de", FirstName: "Max"}, domain.SchemaV1)
	assert.Nil(s.T(), sub.Registration)
}

func (s *BuilderSuite) TestKoreaConsentPlacementByVersion() {
	acct := models.AccountInfo{
		Country:                     "kr",
		ReceiveMarketingInformation: true,
		ThirdPartyTransferAgreed:    false,
	}

	s.Run("v1 keeps flags inline", func() {
		sub := s.builder.Build(acct, domain.SchemaV1)
		require.NotNil(s.T(), sub.Registration)
		require.NotNil(s.T(), sub.Registration.Korea)
		assert.True(s.T(), sub.Registration.Korea.ReceiveMarketingInformation)
		assert.False(s.T(), sub.Registration.Korea.ThirdPartyTransferAgreed)
		assert.Nil(s.T(), sub.Preferences)
	})

	s.Run("v2 moves flags to preferences", func() {
		sub := s.builder.Build(acct, domain.SchemaV2)
		assert.Nil(s.T(), sub.Registration)
		require.NotNil(s.T(), sub.Preferences)
		require.NotNil(s.T(), sub.Preferences.Korea)
		assert.True(s.T(), sub.Preferences.Korea.Marketing.IsConsentGranted)
		assert.False(s.T(), sub.Preferences.Korea.ThirdPartyTransfer.IsConsentGranted)
	})
}

func (s *BuilderSuite) TestV2MirrorsMarketingConsent() {
	sub := s.builder.Build(models.AccountInfo{MarketingConsent: true}, domain.SchemaV2)
	require.NotNil(s.T(), sub.Preferences)
	require.NotNil(s.T(), sub.Preferences.Marketing)
	assert.True(s.T(), sub.Preferences.Marketing.Consent.IsConsentGranted)

	sub = s.builder.Build(models.AccountInfo{}, domain.SchemaV2)
	require.NotNil(s.T(), sub.Preferences)
	assert.False(s.T(), sub.Preferences.Marketing.Consent.IsConsentGranted)
}

func (s *BuilderSuite) TestOpenIDProviderBlock() {
	sub := s.builder.Build(models.AccountInfo{
		OpenIDProviderID:    "rp-123",
		ProviderDescription: "Partner Portal",
	}, domain.SchemaV1)
	require.NotNil(s.T(), sub.Registration)
	require.NotNil(s.T(), sub.Registration.OpenIDProvider)
	assert.Equal(s.T(), "rp-123", sub.Registration.OpenIDProvider.ID)
	assert.Equal(s.T(), "Partner Portal", sub.Registration.OpenIDProvider.Description)

	sub = s.builder.Build(models.AccountInfo{OpenIDProviderID: "   "}, domain.SchemaV1)
	assert.Nil(s.T(), sub.Registration)
}

func (s *BuilderSuite) TestLegacyUsername() {
	sub := s.builder.Build(models.AccountInfo{Username: "ada1815"}, domain.SchemaV1)
	require.NotNil(s.T(), sub.Identity)
	assert.Equal(s.T(), "ada1815", sub.Identity.LegacyUsername)

	sub = s.builder.Build(models.AccountInfo{}, domain.SchemaV1)
	assert.Nil(s.T(), sub.Identity)
}

func (s *BuilderSuite) TestEmptyAccountYieldsEmptySubmission() {
	sub := s.builder.Build(models.AccountInfo{}, domain.SchemaV1)
	assert.Nil(s.T(), sub.Identity)
	assert.Nil(s.T(), sub.Registration)
	assert.Nil(s.T(), sub.Profile)
	assert.Nil(s.T(), sub.Preferences)
}
