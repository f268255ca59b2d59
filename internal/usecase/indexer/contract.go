package indexer

import (
	"context"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/domain/property"
)

// Embedder vectorizes property search text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorRepository writes property vectors to the search index.
type VectorRepository interface {
	EnsureIndex(ctx context.Context, namespace string) error
	Upsert(ctx context.Context, namespace string, records []domain.IndexRecord) error
	Delete(ctx context.Context, namespace, id string) error
}

// CatalogRepository is the property system of record.
type CatalogRepository interface {
	Put(ctx context.Context, p property.Property) error
	Get(ctx context.Context, id string) (property.Property, error)
	Delete(ctx context.Context, id string) error
}
