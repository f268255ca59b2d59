package score

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/spacefit/spacefit/internal/domain"
)

// scoreItem is one rated candidate in the model's JSON array response.
type scoreItem struct {
	Index       int     `json:"index"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

var fencedBlockRE = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// parseScores extracts and validates the model's rating array. It tolerates
// fenced code blocks and surrounding prose, but the payload must contain
// exactly one rating per candidate with ordinals 1..n and scores in [0, 10].
func parseScores(raw string, n int) ([]scoreItem, error) {
	payload := extractJSONArray(raw)
	if payload == "" {
		return nil, domain.NewScoreParse("no JSON array in model output", raw)
	}

	var items []scoreItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, domain.NewScoreParse(fmt.Sprintf("invalid JSON: %v", err), raw)
	}

	if len(items) != n {
		return nil, domain.NewScoreParse(
			fmt.Sprintf("expected %d ratings, got %d", n, len(items)), raw)
	}

	seen := make(map[int]bool, n)
	for _, it := range items {
		if it.Index < 1 || it.Index > n {
			return nil, domain.NewScoreParse(
				fmt.Sprintf("rating index %d out of range 1..%d", it.Index, n), raw)
		}
		if seen[it.Index] {
			return nil, domain.NewScoreParse(
				fmt.Sprintf("duplicate rating index %d", it.Index), raw)
		}
		seen[it.Index] = true

		if it.Score < 0 || it.Score > 10 {
			return nil, domain.NewScoreParse(
				fmt.Sprintf("score %g for index %d outside [0, 10]", it.Score, it.Index), raw)
		}
	}
	return items, nil
}

// extractJSONArray pulls the JSON array out of a possibly-decorated model
// response. A fenced code block wins; otherwise the span from the first '['
// to the last ']' is used.
func extractJSONArray(raw string) string {
	text := raw
	if m := fencedBlockRE.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}
