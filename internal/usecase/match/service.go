package match

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/logger"
	"github.com/spacefit/spacefit/internal/metrics"
)

// Service runs the tenant-to-property matching pipeline: embed the query,
// retrieve nearest candidates, hydrate them from the catalog, score them
// with the reranking model, and rank by score.
type Service struct {
	embed  Embedder
	index  Retriever
	props  Resolver
	scorer Scorer
	topK   int
}

// New creates a match service. topK bounds how many candidates the vector
// index returns per query.
func New(embed Embedder, index Retriever, props Resolver, scorer Scorer, topK int) *Service {
	if topK < 1 {
		topK = 10
	}
	return &Service{embed: embed, index: index, props: props, scorer: scorer, topK: topK}
}

// Match ranks properties for a free-text tenant query. Results are ordered
// by score descending; equal scores keep retrieval order. Fewer than topK
// results are returned as-is when the index holds fewer records.
func (s *Service) Match(ctx context.Context, query string) ([]domain.MatchedProperty, error) {
	start := time.Now()
	defer func() {
		metrics.MatchDuration.Observe(time.Since(start).Seconds())
	}()

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Query(ctx, domain.PropertyNamespace, emb.Embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	props, err := s.props.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve candidates: %w", err)
	}

	candidates := make([]domain.MatchCandidate, len(props))
	for i := range props {
		candidates[i] = domain.MatchCandidate{
			Property:   props[i],
			Similarity: hits[i].Similarity,
		}
	}

	scored, err := s.scorer.Score(ctx, query, candidates)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	// Stable keeps retrieval order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	logger.FromContext(ctx).Debug("match pipeline complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(scored)),
		zap.Duration("elapsed", time.Since(start)))
	return scored, nil
}
