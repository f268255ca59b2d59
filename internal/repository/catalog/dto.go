package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spacefit/spacefit/internal/domain/property"
)

// Hash field names for a stored property.
const (
	fieldCity           = "city"
	fieldState          = "state"
	fieldPropertyType   = "property_type"
	fieldRentPerSqft    = "rent_per_sqft"
	fieldLeaseType      = "lease_type"
	fieldDescription    = "description"
	fieldFeatures       = "features"
	fieldNeighborhood   = "neighborhood"
	fieldDesiredTenants = "desired_tenants"
)

// toFields flattens a property into hash fields. List fields are stored as
// JSON arrays to keep element order.
func toFields(p property.Property) (map[string]string, error) {
	features, err := json.Marshal(p.Features())
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}
	desired, err := json.Marshal(p.DesiredTenants())
	if err != nil {
		return nil, fmt.Errorf("marshal desired tenants: %w", err)
	}

	return map[string]string{
		fieldCity:           p.City(),
		fieldState:          p.State(),
		fieldPropertyType:   p.PropertyType(),
		fieldRentPerSqft:    strconv.FormatFloat(p.RentPerSqft(), 'f', -1, 64),
		fieldLeaseType:      string(p.LeaseType()),
		fieldDescription:    p.Description(),
		fieldFeatures:       string(features),
		fieldNeighborhood:   p.Neighborhood(),
		fieldDesiredTenants: string(desired),
	}, nil
}

// fromFields hydrates a property from hash fields.
func fromFields(id string, fields map[string]string) (property.Property, error) {
	rent := 0.0
	if s := fields[fieldRentPerSqft]; s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return property.Property{}, fmt.Errorf("parse rent %q: %w", s, err)
		}
		rent = parsed
	}

	features, err := decodeList(fields[fieldFeatures])
	if err != nil {
		return property.Property{}, fmt.Errorf("decode features: %w", err)
	}
	desired, err := decodeList(fields[fieldDesiredTenants])
	if err != nil {
		return property.Property{}, fmt.Errorf("decode desired tenants: %w", err)
	}

	return property.Reconstruct(
		id,
		fields[fieldCity],
		fields[fieldState],
		fields[fieldPropertyType],
		rent,
		property.LeaseType(fields[fieldLeaseType]),
		fields[fieldDescription],
		features,
		fields[fieldNeighborhood],
		desired,
	), nil
}

func decodeList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("unmarshal list: %w", err)
	}
	return out, nil
}
