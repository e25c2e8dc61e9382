package domain

import "strings"

// CountryCode selects the country-specific variant of a vendor account
// submission. Only the countries with a dedicated registration schema are
// enumerated here; every other country builds a plain submission with no
// variant block.
type CountryCode string

// Countries with a dedicated registration variant.
const (
	CountryJapan CountryCode = "jp"
	CountryChina CountryCode = "cn"
	CountryKorea CountryCode = "kr"
)

// variantCountries is the single source of truth for countries that carry a
// registration variant. Adding a country means adding it here and registering
// a variant builder; no conditional chains elsewhere.
var variantCountries = map[CountryCode]bool{
	CountryJapan: true,
	CountryChina: true,
	CountryKorea: true,
}

// ParseCountryCode matches s case-insensitively against the variant country
// table. The boolean reports whether s names a variant country; a false
// result is not an error, it means the submission carries no variant block.
func ParseCountryCode(s string) (CountryCode, bool) {
	c := CountryCode(strings.ToLower(strings.TrimSpace(s)))
	if !variantCountries[c] {
		return "", false
	}
	return c, true
}

// String returns the string representation of the country code.
func (c CountryCode) String() string {
	return string(c)
}
