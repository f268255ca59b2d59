// Package property defines the property aggregate owned by the system of
// record. Properties are read-only to the matching pipeline for the duration
// of a request.
package property

import (
	"fmt"
	"regexp"
	"strings"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// LeaseType is the lease economics category of a listing.
type LeaseType string

// Known lease types.
const (
	LeaseTripleNet     LeaseType = "triple_net"
	LeaseGross         LeaseType = "gross"
	LeaseModifiedGross LeaseType = "modified_gross"
	LeasePercentage    LeaseType = "percentage"
)

// IsValid reports whether the lease type is one of the known values.
func (l LeaseType) IsValid() bool {
	switch l {
	case LeaseTripleNet, LeaseGross, LeaseModifiedGross, LeasePercentage:
		return true
	}
	return false
}

// Property is a landlord-owned listing (immutable value object).
type Property struct {
	id             string
	city           string
	state          string
	propertyType   string
	rentPerSqft    float64
	leaseType      LeaseType
	description    string
	features       []string
	neighborhood   string
	desiredTenants []string
}

// New validates and creates a Property.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Description: non-empty (it anchors the
// search text). Lease type must be a known value when set.
func New(
	id, city, state, propertyType string,
	rentPerSqft float64, leaseType LeaseType,
	description string, features []string,
	neighborhood string, desiredTenants []string,
) (Property, error) {
	if id == "" {
		return Property{}, fmt.Errorf("property ID is required")
	}
	if len(id) > 256 {
		return Property{}, fmt.Errorf("property ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Property{}, fmt.Errorf("property ID must be alphanumeric with underscores and hyphens")
	}
	if description == "" {
		return Property{}, fmt.Errorf("description is required")
	}
	if rentPerSqft < 0 {
		return Property{}, fmt.Errorf("rent per sqft must not be negative")
	}
	if leaseType != "" && !leaseType.IsValid() {
		return Property{}, fmt.Errorf("unknown lease type %q", leaseType)
	}

	return Property{
		id:             id,
		city:           city,
		state:          state,
		propertyType:   propertyType,
		rentPerSqft:    rentPerSqft,
		leaseType:      leaseType,
		description:    description,
		features:       cloneStrings(features),
		neighborhood:   neighborhood,
		desiredTenants: cloneStrings(desiredTenants),
	}, nil
}

// Reconstruct creates a Property without validation (storage hydration).
func Reconstruct(
	id, city, state, propertyType string,
	rentPerSqft float64, leaseType LeaseType,
	description string, features []string,
	neighborhood string, desiredTenants []string,
) Property {
	return Property{
		id: id, city: city, state: state, propertyType: propertyType,
		rentPerSqft: rentPerSqft, leaseType: leaseType, description: description,
		features: features, neighborhood: neighborhood, desiredTenants: desiredTenants,
	}
}

// ID returns the property identifier.
func (p *Property) ID() string { return p.id }

// City returns the property city.
func (p *Property) City() string { return p.city }

// State returns the property state.
func (p *Property) State() string { return p.state }

// PropertyType returns the listing category (retail, office, industrial, ...).
func (p *Property) PropertyType() string { return p.propertyType }

// RentPerSqft returns the asking rent per square foot.
func (p *Property) RentPerSqft() float64 { return p.rentPerSqft }

// LeaseType returns the lease economics category.
func (p *Property) LeaseType() LeaseType { return p.leaseType }

// Description returns the free-text listing description.
func (p *Property) Description() string { return p.description }

// Features returns the ordered feature strings.
func (p *Property) Features() []string { return p.features }

// Neighborhood returns the neighborhood descriptor.
func (p *Property) Neighborhood() string { return p.neighborhood }

// DesiredTenants returns the desired-tenant-type tags.
func (p *Property) DesiredTenants() []string { return p.desiredTenants }

// SearchText renders the property as a single natural-language string for
// embedding: description, then neighborhood, then each feature, then each
// desired-tenant tag, space-joined. Pure function of the field values, so
// re-embedding an unchanged property is idempotent. No truncation, no
// deduplication.
func (p *Property) SearchText() string {
	parts := make([]string, 0, 2+len(p.features)+len(p.desiredTenants))
	parts = append(parts, p.description)
	if p.neighborhood != "" {
		parts = append(parts, p.neighborhood)
	}
	parts = append(parts, p.features...)
	parts = append(parts, p.desiredTenants...)
	return strings.Join(parts, " ")
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
