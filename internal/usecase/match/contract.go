package match

import (
	"context"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/domain/property"
)

// Embedder vectorizes the tenant query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Retriever runs nearest-neighbor search over the property vector index.
type Retriever interface {
	Query(ctx context.Context, namespace string, vec []float32, topK int) ([]domain.Hit, error)
}

// Resolver hydrates retrieved property ids from the catalog, preserving
// input order.
type Resolver interface {
	GetMulti(ctx context.Context, ids []string) ([]property.Property, error)
}

// Scorer rates candidates against the tenant query, one result per
// candidate in retrieval order.
type Scorer interface {
	Score(ctx context.Context, query string, candidates []domain.MatchCandidate) ([]domain.MatchedProperty, error)
}
