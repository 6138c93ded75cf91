package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

var _ ports.Metric = ndcgMetric{}

// ndcgMetric scores a predicted ranking against ground truth relevance
// weights with normalized discounted cumulative gain. Each predicted rank
// is a 1-based index into the weight vector; ranks beyond the vector
// contribute zero relevance rather than failing. The prediction is
// truncated to the truth length, and the ideal DCG comes from the weights
// sorted descending.
type ndcgMetric struct{}

func (ndcgMetric) Name() string { return MetricNDCG }

func (ndcgMetric) Score(_ context.Context, pred domain.ParsedValue, truth domain.GroundTruth) (domain.Score, error) {
	weights, err := truth.Floats()
	if err != nil {
		return domain.Score{}, fmt.Errorf("%s: %w", MetricNDCG, err)
	}

	ranks := pred.Ranking
	if len(ranks) > len(weights) {
		ranks = ranks[:len(weights)]
	}

	var dcg float64
	for i, rank := range ranks {
		idx := int(rank) - 1
		relevance := 0.0
		if idx >= 0 && idx < len(weights) {
			relevance = weights[idx]
		}
		dcg += gain(relevance, i)
	}

	ideal := append([]float64(nil), weights...)
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))

	var idcg float64
	for i, relevance := range ideal {
		idcg += gain(relevance, i)
	}

	// A truth with no positive weight has no ideal ordering to normalize
	// against; the sample scores zero instead of dividing by zero.
	if idcg == 0 {
		return domain.ScalarScore(0), nil
	}
	return domain.ScalarScore(dcg / idcg), nil
}

// gain is the exponential DCG contribution of a relevance weight at
// 0-based position i.
func gain(relevance float64, i int) float64 {
	return (math.Pow(2, relevance) - 1) / math.Log2(float64(i)+2)
}
