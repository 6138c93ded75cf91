package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/kljensen/snowball/english"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

var _ ports.Metric = rougeLMetric{}

// rougeLMetric scores generated text against a reference with ROUGE-L:
// the F-measure over the longest common subsequence of stemmed tokens.
// Tokenization keeps alphanumeric runs of the lowercased text, and tokens
// longer than three characters are Porter-stemmed, matching the standard
// ROUGE implementation with stemming enabled.
type rougeLMetric struct{}

func (rougeLMetric) Name() string { return MetricRougeL }

func (rougeLMetric) Score(_ context.Context, pred domain.ParsedValue, truth domain.GroundTruth) (domain.Score, error) {
	ref, err := truth.Text()
	if err != nil {
		return domain.Score{}, fmt.Errorf("%s: %w", MetricRougeL, err)
	}

	candTokens := stemmedTokens(pred.Text)
	refTokens := stemmedTokens(ref)
	if len(candTokens) == 0 || len(refTokens) == 0 {
		return domain.ScalarScore(0), nil
	}

	lcs := lcsLength(candTokens, refTokens)
	if lcs == 0 {
		return domain.ScalarScore(0), nil
	}

	precision := float64(lcs) / float64(len(candTokens))
	recall := float64(lcs) / float64(len(refTokens))
	return domain.ScalarScore(2 * precision * recall / (precision + recall)), nil
}

// stemmedTokens lowercases the text, extracts alphanumeric token runs,
// and stems tokens longer than three characters.
func stemmedTokens(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tok := current.String()
		current.Reset()
		if len(tok) > 3 {
			tok = english.Stem(tok, false)
		}
		tokens = append(tokens, tok)
	}

	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// lcsLength computes the longest common subsequence length with the
// classic two-row dynamic program.
func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
