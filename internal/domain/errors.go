package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPropertyNotFound signals a missing property in the catalog.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrIndex signals a vector index failure (upsert or query).
	ErrIndex = errors.New("vector index error")
	// ErrStaleIndex signals the index returned ids absent from the catalog.
	ErrStaleIndex = errors.New("stale index")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrScorer signals a scoring model call failure.
	ErrScorer = errors.New("scoring model error")
	// ErrScoreParse signals unparseable scoring model output.
	ErrScoreParse = errors.New("score parse error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// StaleIndexError wraps ErrStaleIndex with the ids that were returned by the
// vector index but no longer exist in the catalog. Callers use it to trigger
// reindexing rather than silently degrading ranking quality.
type StaleIndexError struct {
	MissingIDs []string
}

func (e *StaleIndexError) Error() string {
	return fmt.Sprintf("%s: ids not in catalog: %s", ErrStaleIndex.Error(), strings.Join(e.MissingIDs, ", "))
}

func (e *StaleIndexError) Unwrap() error { return ErrStaleIndex }

// NewStaleIndex creates a stale index error for the given missing ids.
func NewStaleIndex(missingIDs []string) error {
	return &StaleIndexError{MissingIDs: missingIDs}
}

// ScoreParseError wraps ErrScoreParse with the raw model output that failed
// to decode. Retryable: model output is non-deterministic and a re-prompt is
// likely to succeed.
type ScoreParseError struct {
	Reason    string
	RawOutput string
}

func (e *ScoreParseError) Error() string {
	raw := e.RawOutput
	if len(raw) > 200 {
		raw = raw[:200] + "..."
	}
	return fmt.Sprintf("%s: %s: %q", ErrScoreParse.Error(), e.Reason, raw)
}

func (e *ScoreParseError) Unwrap() error { return ErrScoreParse }

// NewScoreParse creates a score parse error.
func NewScoreParse(reason, rawOutput string) error {
	return &ScoreParseError{Reason: reason, RawOutput: rawOutput}
}
