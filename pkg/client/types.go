package spacefit

import (
	"context"
	"fmt"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/domain/property"
)

// Embedder vectorizes text. Implement it to plug in a non-OpenAI provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Property is a landlord listing.
type Property struct {
	ID             string
	City           string
	State          string
	PropertyType   string
	RentPerSqft    float64
	LeaseType      string
	Description    string
	Features       []string
	Neighborhood   string
	DesiredTenants []string
}

// Match is a scored property for a tenant query. Results come back ordered
// by score descending.
type Match struct {
	Property Property
	Score    float64
	Reason   string
}

// HealthReport is the aggregated component health.
type HealthReport struct {
	Status string
	Checks map[string]string
}

func propertyToDomain(p Property) (property.Property, error) {
	dp, err := property.New(
		p.ID, p.City, p.State, p.PropertyType,
		p.RentPerSqft, property.LeaseType(p.LeaseType),
		p.Description, p.Features, p.Neighborhood, p.DesiredTenants,
	)
	if err != nil {
		return property.Property{}, fmt.Errorf("spacefit: invalid property: %w", err)
	}
	return dp, nil
}

func propertyFromDomain(p *property.Property) Property {
	return Property{
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

// embedderAdapter lifts the public Embedder into the domain contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}
