package score

import (
	"context"

	"go.uber.org/zap"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/logger"
	"github.com/spacefit/spacefit/internal/metrics"
)

// Service scores retrieved candidates against a tenant query with a
// reranking chat model.
type Service struct {
	llm         Completer
	maxAttempts int
}

// New creates a scoring service. maxAttempts bounds how many times a
// malformed model response is re-requested before giving up.
func New(llm Completer, maxAttempts int) *Service {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Service{llm: llm, maxAttempts: maxAttempts}
}

// Score asks the model to rate every candidate for the query and returns
// one scored property per candidate, in retrieval order. Candidates are
// numbered 1..n in the prompt and the model echoes those ordinals back;
// the same numbering resolves the response, so ordinal 1 is always
// candidates[0].
func (s *Service) Score(
	ctx context.Context, query string, candidates []domain.MatchCandidate,
) ([]domain.MatchedProperty, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	messages := buildMessages(query, candidates)

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		raw, err := s.llm.Complete(ctx, messages)
		if err != nil {
			return nil, err
		}

		items, err := parseScores(raw, len(candidates))
		if err != nil {
			metrics.ScoringParseFailuresTotal.Inc()
			logger.FromContext(ctx).Warn("reranker output parse failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", s.maxAttempts),
				zap.Error(err))
			lastErr = err
			continue
		}

		out := make([]domain.MatchedProperty, len(candidates))
		for _, it := range items {
			out[it.Index-1] = domain.MatchedProperty{
				Property: candidates[it.Index-1].Property,
				Score:    it.Score,
				Reason:   it.Explanation,
			}
		}
		return out, nil
	}
	return nil, lastErr
}
