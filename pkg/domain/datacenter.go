package domain

import (
	"fmt"
	"strings"
)

// Datacenter identifies one of the two regional CDC deployments. An account
// lives in exactly one datacenter; lookups fall back from the preferred
// datacenter to the other one only when the preferred returns no results.
type Datacenter string

// Known datacenters.
const (
	DatacenterUS Datacenter = "us1"
	DatacenterEU Datacenter = "eu1"
)

// datacenterOrder is the single source of truth for valid datacenters and
// their default preference order.
var datacenterOrder = map[Datacenter]int{
	DatacenterUS: 1,
	DatacenterEU: 2,
}

// ParseDatacenter validates and returns a Datacenter.
// Returns an error if the value is unknown.
func ParseDatacenter(s string) (Datacenter, error) {
	dc := Datacenter(strings.ToLower(s))
	if _, ok := datacenterOrder[dc]; !ok {
		return "", fmt.Errorf("unknown datacenter: %s", s)
	}
	return dc, nil
}

// String returns the string representation of the datacenter.
func (d Datacenter) String() string {
	return string(d)
}

// IsZero returns true when no datacenter is set. A zero Datacenter on a
// search outcome means neither datacenter produced a match.
func (d Datacenter) IsZero() bool {
	return d == ""
}

// Other returns the counterpart datacenter. Undefined datacenters map to
// themselves so callers never receive a value outside the known set.
func (d Datacenter) Other() Datacenter {
	switch d {
	case DatacenterUS:
		return DatacenterEU
	case DatacenterEU:
		return DatacenterUS
	}
	return d
}
