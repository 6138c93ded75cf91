package scoring

import (
	"context"
	"fmt"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

var _ ports.Metric = hitRateMetric{}

// hitRateMetric scores a retrieval prediction as the fraction of distinct
// ground truth items found among the first cutoff predicted indexes.
// An empty truth set has no defined hit rate; the metric surfaces
// ErrEmptyTruthSet so the caller can apply its degenerate-score policy
// instead of dividing by zero.
type hitRateMetric struct {
	cutoff int
}

func (m hitRateMetric) Name() string { return fmt.Sprintf("hit rate@%d", m.cutoff) }

func (m hitRateMetric) Score(_ context.Context, pred domain.ParsedValue, truth domain.GroundTruth) (domain.Score, error) {
	want, err := truth.Ints()
	if err != nil {
		return domain.Score{}, fmt.Errorf("%s: %w", m.Name(), err)
	}
	if len(want) == 0 {
		return domain.Score{}, fmt.Errorf("%s: %w", m.Name(), domain.ErrEmptyTruthSet)
	}

	retrieved := pred.Retrieved
	if len(retrieved) > m.cutoff {
		retrieved = retrieved[:m.cutoff]
	}

	truthSet := make(map[int]bool, len(want))
	for _, v := range want {
		truthSet[v] = false
	}

	hits := 0
	for _, v := range retrieved {
		if seen, ok := truthSet[v]; ok && !seen {
			truthSet[v] = true
			hits++
		}
	}

	return domain.ScalarScore(float64(hits) / float64(len(want))), nil
}
