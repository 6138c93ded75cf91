package scoring

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

// foldCaser is a package-level Unicode case folder shared by the
// normalization helpers; folding handles multilingual entity labels
// correctly where ASCII lowercasing would not.
var foldCaser = cases.Fold()

var _ ports.Metric = microF1Metric{}

// microF1Metric produces the per-sample (tp, fp, fn) count tuple for
// entity extraction. Entities are compared case-insensitively after
// whitespace trimming. The tuple is not a final score; the task
// accumulator sums tuples across all samples and recombines them into a
// global precision/recall/F1.
type microF1Metric struct{}

func (microF1Metric) Name() string { return MetricMicroF1 }

func (microF1Metric) Score(_ context.Context, pred domain.ParsedValue, truth domain.GroundTruth) (domain.Score, error) {
	want, err := truth.Strings()
	if err != nil {
		return domain.Score{}, fmt.Errorf("%s: %w", MetricMicroF1, err)
	}

	predicted := normalizeEntities(pred.Entities)
	expected := normalizeEntities(want)

	expectedSet := make(map[string]struct{}, len(expected))
	for _, e := range expected {
		expectedSet[e] = struct{}{}
	}

	// Intersection over distinct values; list lengths drive the
	// false positive and false negative counts, so repeated predictions
	// of the same entity still cost precision.
	matched := make(map[string]struct{}, len(predicted))
	for _, e := range predicted {
		if _, ok := expectedSet[e]; ok {
			matched[e] = struct{}{}
		}
	}

	tp := len(matched)
	return domain.CountScore(domain.Counts{
		TruePositives:  tp,
		FalsePositives: len(predicted) - tp,
		FalseNegatives: len(expected) - tp,
	}), nil
}

// normalizeEntities case-folds and trims each entity label.
func normalizeEntities(entities []string) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = foldCaser.String(strings.TrimSpace(e))
	}
	return out
}
