package spacefit

import "github.com/spacefit/spacefit/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrPropertyNotFound  = domain.ErrPropertyNotFound
	ErrVectorDimMismatch = domain.ErrVectorDimMismatch
	ErrIndex             = domain.ErrIndex
	ErrStaleIndex        = domain.ErrStaleIndex
	ErrEmbeddingProvider = domain.ErrEmbeddingProvider
	ErrScorer            = domain.ErrScorer
	ErrScoreParse        = domain.ErrScoreParse
	ErrRateLimited       = domain.ErrRateLimited
)
