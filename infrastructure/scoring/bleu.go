package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

// bleuMaxOrder is the highest n-gram order in the geometric mean,
// the conventional BLEU-4.
const bleuMaxOrder = 4

// tokenizeFunc splits normalized text into BLEU tokens. The benchmark
// selects the tokenizer by metric name: the international 13a-style
// tokenizer for `bleu`, character tokenization for `jp-bleu`.
type tokenizeFunc func(string) []string

var _ ports.Metric = bleuMetric{}

// bleuMetric scores a generated sentence against a single reference with
// corpus-style BLEU: case-insensitive, first line of the generation only,
// exponential smoothing for zero n-gram matches, and the result scaled to
// [0,1].
type bleuMetric struct {
	name     string
	tokenize tokenizeFunc
}

func (m bleuMetric) Name() string { return m.name }

func (m bleuMetric) Score(_ context.Context, pred domain.ParsedValue, truth domain.GroundTruth) (domain.Score, error) {
	refs, err := truth.Texts()
	if err != nil {
		return domain.Score{}, fmt.Errorf("%s: %w", m.name, err)
	}
	if len(refs) == 0 {
		return domain.Score{}, fmt.Errorf("%s: %w", m.name, domain.ErrEmptyTruthSet)
	}

	candidate := m.tokenize(strings.ToLower(firstLine(pred.Text)))
	reference := m.tokenize(strings.ToLower(refs[0]))
	if len(candidate) == 0 || len(reference) == 0 {
		return domain.ScalarScore(0), nil
	}

	// Geometric mean of clipped n-gram precisions with exponential
	// smoothing: every zero-match order halves the smoothed numerator
	// again instead of zeroing the whole product.
	var logSum float64
	smooth := 1.0
	for n := 1; n <= bleuMaxOrder; n++ {
		denominator := len(candidate) - n + 1
		if denominator <= 0 {
			return domain.ScalarScore(0), nil
		}

		matches := clippedMatches(candidate, reference, n)
		var precision float64
		if matches == 0 {
			smooth *= 2
			precision = 1 / (smooth * float64(denominator))
		} else {
			precision = float64(matches) / float64(denominator)
		}
		logSum += math.Log(precision)
	}

	brevity := 1.0
	if len(candidate) < len(reference) {
		brevity = math.Exp(1 - float64(len(reference))/float64(len(candidate)))
	}

	return domain.ScalarScore(brevity * math.Exp(logSum/bleuMaxOrder)), nil
}

// clippedMatches counts candidate n-grams that also occur in the
// reference, clipping each n-gram's count at its reference frequency.
func clippedMatches(candidate, reference []string, n int) int {
	refCounts := make(map[string]int)
	for i := 0; i+n <= len(reference); i++ {
		refCounts[strings.Join(reference[i:i+n], "\x1f")]++
	}

	matches := 0
	for i := 0; i+n <= len(candidate); i++ {
		gram := strings.Join(candidate[i:i+n], "\x1f")
		if refCounts[gram] > 0 {
			refCounts[gram]--
			matches++
		}
	}
	return matches
}

// firstLine trims surrounding newlines and keeps only the first line of
// a multi-line generation; models frequently append commentary the
// benchmark does not score.
func firstLine(text string) string {
	trimmed := strings.Trim(text, "\n")
	if i := strings.IndexByte(trimmed, '\n'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// tokenize13a approximates the mteval 13a tokenizer: punctuation is
// split into its own tokens, except that periods and commas stay
// attached inside numbers (1,000 / 3.14).
func tokenize13a(s string) []string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 16)

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '.' || r == ',':
			if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
				b.WriteRune(r)
				b.WriteRune(' ')
			}
		default:
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// tokenizeRunes treats every non-space rune as a token. It stands in for
// morphological tokenization in languages written without word
// delimiters, which is how the Japanese BLEU variant is scored here.
func tokenizeRunes(s string) []string {
	var tokens []string
	for _, r := range s {
		if !unicode.IsSpace(r) {
			tokens = append(tokens, string(r))
		}
	}
	return tokens
}
