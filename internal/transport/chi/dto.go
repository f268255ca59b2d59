package chi

import (
	"fmt"

	"github.com/spacefit/spacefit/internal/domain/property"
)

// Wire error codes.
type errorCode string

const (
	codeBadRequest        errorCode = "bad_request"
	codeValidationFailed  errorCode = "validation_failed"
	codePropertyNotFound  errorCode = "property_not_found"
	codeVectorDimMismatch errorCode = "vector_dim_mismatch"
	codeStaleIndex        errorCode = "stale_index"
	codeEmbeddingProvider errorCode = "embedding_provider_error"
	codeScorerError       errorCode = "scorer_error"
	codeScoreParse        errorCode = "score_parse_error"
	codeRateLimited       errorCode = "rate_limited"
	codeInternalError     errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type matchRequest struct {
	Query string `json:"query"`
}

type matchResultItem struct {
	Property propertyResponse `json:"property"`
	Score    float64          `json:"score"`
	Reason   string           `json:"reason"`
}

type matchResponse struct {
	Results []matchResultItem `json:"results"`
	Total   int               `json:"total"`
}

// propertyPayload is the write-side property body. ID comes from the URL on
// single upserts and from the payload on batch items.
type propertyPayload struct {
	ID             string   `json:"id,omitempty"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	PropertyType   string   `json:"property_type"`
	RentPerSqft    float64  `json:"rent_per_sqft"`
	LeaseType      string   `json:"lease_type"`
	Description    string   `json:"description"`
	Features       []string `json:"features,omitempty"`
	Neighborhood   string   `json:"neighborhood,omitempty"`
	DesiredTenants []string `json:"desired_tenants,omitempty"`
}

type propertyResponse struct {
	ID             string   `json:"id"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	PropertyType   string   `json:"property_type"`
	RentPerSqft    float64  `json:"rent_per_sqft"`
	LeaseType      string   `json:"lease_type,omitempty"`
	Description    string   `json:"description"`
	Features       []string `json:"features,omitempty"`
	Neighborhood   string   `json:"neighborhood,omitempty"`
	DesiredTenants []string `json:"desired_tenants,omitempty"`
}

type batchUpsertRequest struct {
	Properties []propertyPayload `json:"properties"`
}

type batchUpsertResponse struct {
	Indexed int `json:"indexed"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func propertyFromPayload(id string, p propertyPayload) (property.Property, error) {
	return property.New(
		id, p.City, p.State, p.PropertyType,
		p.RentPerSqft, property.LeaseType(p.LeaseType),
		p.Description, p.Features, p.Neighborhood, p.DesiredTenants,
	)
}

func batchToProperties(items []propertyPayload) ([]property.Property, error) {
	out := make([]property.Property, 0, len(items))
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("property %d: id is required", i)
		}
		p, err := propertyFromPayload(item.ID, item)
		if err != nil {
			return nil, fmt.Errorf("property %d (%s): %w", i, item.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func propertyToResponse(p *property.Property) propertyResponse {
	return propertyResponse{
		ID:             p.ID(),
		City:           p.City(),
		State:          p.State(),
		PropertyType:   p.PropertyType(),
		RentPerSqft:    p.RentPerSqft(),
		LeaseType:      string(p.LeaseType()),
		Description:    p.Description(),
		Features:       p.Features(),
		Neighborhood:   p.Neighborhood(),
		DesiredTenants: p.DesiredTenants(),
	}
}
