// Package locale canonicalizes the free-form locale strings carried on
// vendor accounts and inbound registrations.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Normalizer converts locale names to canonical BCP-47 tags. A malformed
// name normalizes to the empty string, which downstream submission building
// accepts as "no locale" rather than treating as an error.
type Normalizer struct{}

// New returns a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize returns the canonical tag for name, or "" when name cannot be
// parsed. POSIX-style separators ("en_US") are tolerated.
func (n *Normalizer) Normalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return ""
	}
	return tag.String()
}
