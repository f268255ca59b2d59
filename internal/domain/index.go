package domain

import (
	"fmt"
	"strconv"
)

// KeyPrefix prefixes every key this service writes to its store.
const KeyPrefix = "spacefit:"

// PropertyNamespace is the vector index namespace for property records.
const PropertyNamespace = "property"

// IndexConfig identifies a named vector index and its dimensionality.
// Created once per deployment and passed to every index operation as a
// capability token; never mutated.
type IndexConfig struct {
	Name       string
	Dimensions int
}

// DefaultIndexConfig returns the deployment default.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{Name: "properties", Dimensions: 1536}
}

// Validate checks that a vector matches the configured dimensionality.
// Vectors from different configs are never compared, so a mismatch is a
// hard error rather than something to truncate or pad around.
func (c IndexConfig) Validate(vector []float32) error {
	if len(vector) != c.Dimensions {
		return fmt.Errorf("%w: %w: index %q expects %d dimensions, got %d",
			ErrIndex, ErrVectorDimMismatch, c.Name, c.Dimensions, len(vector))
	}
	return nil
}

// IndexRecord is an (id, vector, metadata) triple persisted in the vector
// index under a namespace. Metadata is a small projection (city, state, rent)
// kept for index-side filtering; the id is the property's identity so a later
// resolve-by-id step can recover the full record.
type IndexRecord struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Hit is a single nearest-neighbor result: the stored record's id and a
// monotonically-comparable similarity (higher = more similar).
type Hit struct {
	ID         string
	Similarity float64
}

// PropertyMetadata builds the small metadata projection stored alongside a
// property's vector: city, state, rent.
func PropertyMetadata(city, state string, rentPerSqft float64) map[string]string {
	return map[string]string{
		"city":  city,
		"state": state,
		"rent":  strconv.FormatFloat(rentPerSqft, 'f', -1, 64),
	}
}
