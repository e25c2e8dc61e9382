// Package email derives placeholder profile values from bare email
// addresses. Lite registrations arrive with nothing but an email; the vendor
// schema still wants a name on the profile.
package email

import (
	"strings"
	"unicode"
)

// DeriveNameFromEmail splits the local part of email into a first and last
// name guess. "ada.lovelace@example.com" yields ("Ada", "Lovelace"); inputs
// without separators fall back to "User" for the missing part.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "User", "User"
	}

	first := capitalize(parts[0])
	last := "User"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
