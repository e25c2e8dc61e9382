package domain

import "fmt"

// SchemaVersion represents a valid vendor submission schema version.
// This is a domain primitive that enforces validity at parse time.
type SchemaVersion string

// Supported schema versions.
const (
	SchemaV1 SchemaVersion = "v1"
	SchemaV2 SchemaVersion = "v2"
)

// versionOrder defines the ordering of versions for comparison.
// Higher numbers represent newer versions.
var versionOrder = map[SchemaVersion]int{
	SchemaV1: 1,
	SchemaV2: 2,
}

// ParseSchemaVersion validates and returns a SchemaVersion.
// Returns an error if the version is unknown.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	v := SchemaVersion(s)
	if _, ok := versionOrder[v]; !ok {
		return "", fmt.Errorf("unknown schema version: %s", s)
	}
	return v, nil
}

// String returns the string representation of the schema version.
func (v SchemaVersion) String() string {
	return string(v)
}

// AtLeast returns true if this version is >= other. Unknown versions are
// treated as lower than any known version.
func (v SchemaVersion) AtLeast(other SchemaVersion) bool {
	thisOrder, thisOK := versionOrder[v]
	otherOrder, otherOK := versionOrder[other]
	if !thisOK {
		return false
	}
	if !otherOK {
		return true
	}
	return thisOrder >= otherOrder
}
