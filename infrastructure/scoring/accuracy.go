package scoring

import (
	"context"
	"fmt"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

var _ ports.Metric = accuracyMetric{}

// accuracyMetric scores a multiple-choice prediction by equality with the
// ground truth option index. The -1 sentinel from an unparsable response
// never equals a valid index, so malformed output scores zero naturally.
type accuracyMetric struct{}

func (accuracyMetric) Name() string { return MetricAccuracy }

func (accuracyMetric) Score(_ context.Context, pred domain.ParsedValue, truth domain.GroundTruth) (domain.Score, error) {
	want, err := truth.Int()
	if err != nil {
		return domain.Score{}, fmt.Errorf("%s: %w", MetricAccuracy, err)
	}
	return domain.BoolScore(pred.Choice == want), nil
}
