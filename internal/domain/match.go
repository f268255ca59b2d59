package domain

import "github.com/spacefit/spacefit/internal/domain/property"

// MatchCandidate pairs a resolved property with its first-stage retrieval
// similarity. Transient: produced per query, discarded after scoring.
type MatchCandidate struct {
	Property   property.Property
	Similarity float64
}

// MatchedProperty is the final output unit of the matching pipeline: a
// property, its 0-10 relevance score, and a one-sentence rationale from the
// scoring model. Result sets are ordered by score descending; ties keep
// retrieval order.
type MatchedProperty struct {
	Property property.Property
	Score    float64
	Reason   string
}
