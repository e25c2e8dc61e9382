package domain

import "strings"

// UID is the vendor-assigned unique account identifier. The CDC platform is
// the system of record for accounts; a UID is opaque to this service and is
// never generated locally.
//
// Usage: construct via ParseUID at trust boundaries; direct casting bypasses
// validation.
type UID string

// ParseUID constructs a UID from external input. Surrounding whitespace is
// rejected rather than trimmed so callers cannot smuggle padded identifiers
// into vendor queries.
func ParseUID(s string) (UID, error) {
	if s == "" {
		return "", ErrEmptyUID
	}
	if strings.TrimSpace(s) != s {
		return "", ErrMalformedUID
	}
	return UID(s), nil
}

// String returns the string representation of the UID.
func (u UID) String() string {
	return string(u)
}

// IsZero returns true if the UID is empty.
func (u UID) IsZero() bool {
	return u == ""
}
