package cdc

import "fmt"

// Queries against the vendor's SQL-like search API.
//
// The vendor API offers no parameterization: literals are single-quote
// delimited and interpolated directly into the query string. This is an
// injection-risk surface inherited from the vendor contract; callers must
// pass pre-sanitized identifiers (the transport layer validates emails
// before they reach here).

const searchFields = "UID, isRegistered, isActive, loginIDs, profile"

// QueryByEmail matches accounts holding email as a verified or unverified
// address.
func QueryByEmail(email string) string {
	return fmt.Sprintf(
		"SELECT %s FROM accounts WHERE emails.verified CONTAINS '%s' OR emails.unverified CONTAINS '%s'",
		searchFields, email, email,
	)
}

// QueryByLoginID matches accounts where loginID is the username or any
// attached email address. Lite registration uses this to find placeholders
// created under either identifier.
func QueryByLoginID(loginID string) string {
	return fmt.Sprintf(
		"SELECT %s FROM accounts WHERE loginIDs.username = '%s' OR emails.verified CONTAINS '%s' OR emails.unverified CONTAINS '%s'",
		searchFields, loginID, loginID, loginID,
	)
}
