package scoring

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/shopbench/internal/domain"
)

func truthOf(t *testing.T, raw string) domain.GroundTruth {
	t.Helper()
	return domain.NewGroundTruth(json.RawMessage(raw))
}

func TestAccuracyMetric(t *testing.T) {
	tests := []struct {
		name  string
		pred  int
		truth string
		want  float64
	}{
		{"correct choice", 2, "2", 1},
		{"wrong choice", 1, "2", 0},
		{"unparsable sentinel never matches", domain.UnparsableChoice, "0", 0},
	}

	m := accuracyMetric{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := m.Score(context.Background(), domain.ChoiceValue(tt.pred), truthOf(t, tt.truth))
			require.NoError(t, err)
			assert.Equal(t, tt.want, score.Value())
		})
	}

	_, err := m.Score(context.Background(), domain.ChoiceValue(1), truthOf(t, `"two"`))
	assert.Error(t, err)
}

func TestHitRateMetric(t *testing.T) {
	tests := []struct {
		name  string
		pred  []int
		truth string
		want  float64
	}{
		{"partial hits", []int{0, 2, 5, 9}, "[0,5,8]", 2.0 / 3.0},
		{"all hits", []int{1, 2}, "[1,2]", 1},
		{"no hits", []int{7, 8, 9}, "[0,1]", 0},
		{"duplicate predictions count once", []int{1, 1, 2}, "[1,2,3]", 2.0 / 3.0},
		{"only first three considered", []int{9, 9, 9, 1}, "[1]", 0},
	}

	m := hitRateMetric{cutoff: 3}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := m.Score(context.Background(), domain.RetrievalValue(tt.pred), truthOf(t, tt.truth))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, score.Value(), 1e-9)
		})
	}
}

func TestHitRateMetric_EmptyTruth(t *testing.T) {
	m := hitRateMetric{cutoff: 3}
	_, err := m.Score(context.Background(), domain.RetrievalValue([]int{1}), truthOf(t, "[]"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyTruthSet)
}

func TestMicroF1Metric(t *testing.T) {
	tests := []struct {
		name  string
		pred  []string
		truth string
		want  domain.Counts
	}{
		{
			name:  "case and whitespace insensitive overlap",
			pred:  []string{"New York ", "shopbench"},
			truth: `["new york","ShopBench","Seattle"]`,
			want:  domain.Counts{TruePositives: 2, FalsePositives: 0, FalseNegatives: 1},
		},
		{
			name:  "duplicate prediction costs precision",
			pred:  []string{"a", "a"},
			truth: `["a"]`,
			want:  domain.Counts{TruePositives: 1, FalsePositives: 1, FalseNegatives: 0},
		},
		{
			name:  "nothing predicted",
			pred:  nil,
			truth: `["a","b"]`,
			want:  domain.Counts{TruePositives: 0, FalsePositives: 0, FalseNegatives: 2},
		},
	}

	m := microF1Metric{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := m.Score(context.Background(), domain.EntitiesValue(tt.pred), truthOf(t, tt.truth))
			require.NoError(t, err)
			require.True(t, score.IsCounts())
			assert.Equal(t, tt.want, score.Counts())
		})
	}
}

func TestNDCGMetric(t *testing.T) {
	m := ndcgMetric{}

	t.Run("ideal ordering scores one", func(t *testing.T) {
		score, err := m.Score(context.Background(),
			domain.RankingValue([]float64{1, 2, 3}), truthOf(t, "[3,2,1]"))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score.Value(), 1e-9)
	})

	t.Run("out-of-range rank contributes zero", func(t *testing.T) {
		// Position 1 references index 4 of a 2-weight truth: zero
		// relevance, no failure. Position 2 recovers weight 1.
		score, err := m.Score(context.Background(),
			domain.RankingValue([]float64{5, 1}), truthOf(t, "[1,0]"))
		require.NoError(t, err)
		assert.InDelta(t, 0.63093, score.Value(), 1e-4)
	})

	t.Run("prediction truncated to truth length", func(t *testing.T) {
		score, err := m.Score(context.Background(),
			domain.RankingValue([]float64{1, 2, 3, 4, 5}), truthOf(t, "[2,1]"))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score.Value(), 1e-9)
	})

	t.Run("empty ranking scores zero", func(t *testing.T) {
		score, err := m.Score(context.Background(),
			domain.RankingValue([]float64{}), truthOf(t, "[1,1]"))
		require.NoError(t, err)
		assert.Equal(t, 0.0, score.Value())
	})

	t.Run("all-zero weights score zero not NaN", func(t *testing.T) {
		score, err := m.Score(context.Background(),
			domain.RankingValue([]float64{1, 2}), truthOf(t, "[0,0]"))
		require.NoError(t, err)
		assert.Equal(t, 0.0, score.Value())
	})
}
