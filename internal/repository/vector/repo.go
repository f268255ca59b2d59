// Package vector implements the namespaced nearest-neighbor index on top of
// RediSearch: upsert (id, vector, metadata) and top-K query.
package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spacefit/spacefit/internal/db"
	"github.com/spacefit/spacefit/internal/domain"
)

// store is the consumer interface for index operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, key string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// HNSWConfig holds HNSW build parameters for the FT index.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo is the vector index bound to one IndexConfig.
type Repo struct {
	store store
	cfg   domain.IndexConfig
	hnsw  HNSWConfig
}

// New creates a vector index repository bound to the given config.
func New(s store, cfg domain.IndexConfig) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// WithHNSW sets HNSW build parameters.
func (r *Repo) WithHNSW(h HNSWConfig) *Repo {
	r.hnsw = h
	return r
}

// Config returns the bound index config.
func (r *Repo) Config() domain.IndexConfig {
	return r.cfg
}

// EnsureIndex creates the FT index for a namespace if it does not exist yet.
// Metadata fields are indexed as TAG (city, state) and NUMERIC (rent) so the
// index can pre-filter server-side when that is ever needed.
func (r *Repo) EnsureIndex(ctx context.Context, namespace string) error {
	idxName := r.indexName(namespace)

	exists, err := r.store.IndexExists(ctx, idxName)
	if err != nil {
		return fmt.Errorf("%w: check index %s: %w", domain.ErrIndex, idxName, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     idxName,
		Prefixes: []string{r.keyPrefix(namespace)},
		Fields: []db.IndexField{
			{Name: "city", Type: db.IndexFieldTag},
			{Name: "state", Type: db.IndexFieldTag},
			{Name: "rent", Type: db.IndexFieldNumeric},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.cfg.Dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.hnsw.M,
				VectorEFConstruct: r.hnsw.EFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("%w: create index %s: %w", domain.ErrIndex, idxName, err)
	}
	return nil
}

// Upsert writes records into the namespace in one pipelined round-trip.
// Same-id upsert overwrites, so re-indexing an unchanged record is a no-op
// from the caller's perspective. Every vector is validated against the bound
// config's dimensionality before anything is written.
func (r *Repo) Upsert(ctx context.Context, namespace string, records []domain.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(records))
	for i, rec := range records {
		if err := r.cfg.Validate(rec.Vector); err != nil {
			return fmt.Errorf("upsert %s: %w", rec.ID, err)
		}

		fields := make(map[string]string, len(rec.Metadata)+1)
		for k, v := range rec.Metadata {
			fields[k] = v
		}
		fields["vector"] = vectorToBytes(rec.Vector)

		items[i] = db.HashSetItem{Key: r.recordKey(namespace, rec.ID), Fields: fields}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("%w: upsert %d records into %s: %w", domain.ErrIndex, len(records), namespace, err)
	}
	return nil
}

// Query returns up to topK nearest records for the given vector, most similar
// first. Fewer than topK hits means the namespace holds fewer records; the
// result is not padded.
func (r *Repo) Query(ctx context.Context, namespace string, vec []float32, topK int) ([]domain.Hit, error) {
	if err := r.cfg.Validate(vec); err != nil {
		return nil, fmt.Errorf("query %s: %w", namespace, err)
	}
	if topK <= 0 {
		topK = 10
	}

	q := &db.KNNQuery{
		IndexName:    r.indexName(namespace),
		Vector:       vec,
		K:            topK,
		ReturnFields: []string{"__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", domain.ErrIndex, namespace, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := r.keyPrefix(namespace)
	hits := make([]domain.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		hits = append(hits, domain.Hit{
			ID:         strings.TrimPrefix(entry.Key, prefix),
			Similarity: entry.Score,
		})
	}
	return hits, nil
}

// Delete removes a single record from the namespace.
func (r *Repo) Delete(ctx context.Context, namespace, id string) error {
	if err := r.store.Del(ctx, r.recordKey(namespace, id)); err != nil {
		return fmt.Errorf("%w: delete %s from %s: %w", domain.ErrIndex, id, namespace, err)
	}
	return nil
}

func (r *Repo) indexName(namespace string) string {
	return fmt.Sprintf("%svec:%s:idx", domain.KeyPrefix, namespace)
}

func (r *Repo) keyPrefix(namespace string) string {
	return fmt.Sprintf("%svec:%s:", domain.KeyPrefix, namespace)
}

func (r *Repo) recordKey(namespace, id string) string {
	return r.keyPrefix(namespace) + id
}

// vectorToBytes serializes []float32 to the binary hash field format.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
