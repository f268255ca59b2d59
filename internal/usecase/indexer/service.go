package indexer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/domain/property"
	"github.com/spacefit/spacefit/internal/logger"
)

// Service maintains the property catalog and its vector index. The catalog
// write lands before the vector write so the index never points at an id the
// catalog cannot resolve.
type Service struct {
	catalog CatalogRepository
	vectors VectorRepository
	embed   Embedder
}

// New creates an indexer service.
func New(catalog CatalogRepository, vectors VectorRepository, embed Embedder) *Service {
	return &Service{catalog: catalog, vectors: vectors, embed: embed}
}

// EnsureIndex creates the property vector index if it does not exist.
func (s *Service) EnsureIndex(ctx context.Context) error {
	return s.vectors.EnsureIndex(ctx, domain.PropertyNamespace)
}

// IndexProperty stores a property in the catalog and (re)indexes its search
// text vector.
func (s *Service) IndexProperty(ctx context.Context, p property.Property) error {
	if err := s.catalog.Put(ctx, p); err != nil {
		return fmt.Errorf("store property %s: %w", p.ID(), err)
	}

	rec, err := s.buildRecord(ctx, p)
	if err != nil {
		return err
	}
	if err := s.vectors.Upsert(ctx, domain.PropertyNamespace, []domain.IndexRecord{rec}); err != nil {
		return fmt.Errorf("index property %s: %w", p.ID(), err)
	}

	logger.FromContext(ctx).Info("property indexed", zap.String("property_id", p.ID()))
	return nil
}

// IndexProperties stores and indexes a batch. Embeddings are requested
// per property; vector writes go out as a single pipelined upsert.
func (s *Service) IndexProperties(ctx context.Context, props []property.Property) error {
	if len(props) == 0 {
		return nil
	}

	records := make([]domain.IndexRecord, 0, len(props))
	for i := range props {
		if err := s.catalog.Put(ctx, props[i]); err != nil {
			return fmt.Errorf("store property %s: %w", props[i].ID(), err)
		}
		rec, err := s.buildRecord(ctx, props[i])
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	if err := s.vectors.Upsert(ctx, domain.PropertyNamespace, records); err != nil {
		return fmt.Errorf("index batch: %w", err)
	}

	logger.FromContext(ctx).Info("property batch indexed", zap.Int("count", len(records)))
	return nil
}

// RemoveProperty deletes a property from the vector index and the catalog.
// The index entry goes first so a half-finished removal degrades to a
// catalog-only record rather than a dangling index id.
func (s *Service) RemoveProperty(ctx context.Context, id string) error {
	if _, err := s.catalog.Get(ctx, id); err != nil {
		return err
	}
	if err := s.vectors.Delete(ctx, domain.PropertyNamespace, id); err != nil {
		return fmt.Errorf("deindex property %s: %w", id, err)
	}
	if err := s.catalog.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return nil
}

// GetProperty reads a property from the catalog.
func (s *Service) GetProperty(ctx context.Context, id string) (property.Property, error) {
	return s.catalog.Get(ctx, id)
}

func (s *Service) buildRecord(ctx context.Context, p property.Property) (domain.IndexRecord, error) {
	emb, err := s.embed.Embed(ctx, p.SearchText())
	if err != nil {
		return domain.IndexRecord{}, fmt.Errorf("embed property %s: %w", p.ID(), err)
	}
	return domain.IndexRecord{
		ID:       p.ID(),
		Vector:   emb.Embedding,
		Metadata: domain.PropertyMetadata(p.City(), p.State(), p.RentPerSqft()),
	}, nil
}
