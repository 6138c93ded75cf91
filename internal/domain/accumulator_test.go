package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskAccumulator_ScalarMean(t *testing.T) {
	acc := NewTaskAccumulator("product_category", TaskMultipleChoice, "accuracy")
	for _, v := range []float64{1, 0, 1} {
		require.NoError(t, acc.Record(ScalarScore(v)))
	}

	overall, err := acc.Finalize()
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, overall, 1e-9)

	row, err := acc.Result()
	require.NoError(t, err)
	assert.Equal(t, "product_category", row.TaskName)
	assert.Equal(t, 3, row.NumSamples)
	assert.InDelta(t, 2.0/3.0, row.OverallScore, 1e-9)
}

func TestTaskAccumulator_CountsSumBeforeF1(t *testing.T) {
	acc := NewTaskAccumulator("entities", TaskNamedEntityRecognition, "micro f1")
	require.NoError(t, acc.Record(CountScore(Counts{TruePositives: 2, FalsePositives: 1})))
	require.NoError(t, acc.Record(CountScore(Counts{TruePositives: 1, FalseNegatives: 1})))

	// Summed counts: tp=3 fp=1 fn=1, P=3/4, R=3/4, F1=3/4.
	// Averaging per-sample F1s instead would give a different number.
	overall, err := acc.Finalize()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, overall, 1e-9)
}

func TestTaskAccumulator_FinalizeTwice(t *testing.T) {
	acc := NewTaskAccumulator("t", TaskGeneration, "rougel")
	require.NoError(t, acc.Record(ScalarScore(0.5)))

	_, err := acc.Finalize()
	require.NoError(t, err)

	_, err = acc.Finalize()
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestTaskAccumulator_RecordAfterFinalize(t *testing.T) {
	acc := NewTaskAccumulator("t", TaskGeneration, "rougel")
	require.NoError(t, acc.Record(ScalarScore(0.5)))

	_, err := acc.Finalize()
	require.NoError(t, err)

	err = acc.Record(ScalarScore(1))
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
}

func TestTaskAccumulator_NoSamples(t *testing.T) {
	acc := NewTaskAccumulator("t", TaskRanking, "ndcg")
	_, err := acc.Finalize()
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestTaskAccumulator_MixedShapesRejected(t *testing.T) {
	acc := NewTaskAccumulator("t", TaskNamedEntityRecognition, "micro f1")
	require.NoError(t, acc.Record(CountScore(Counts{TruePositives: 1})))
	require.NoError(t, acc.Record(ScalarScore(0.5)))

	_, err := acc.Finalize()
	assert.ErrorIs(t, err, ErrMixedScoreShapes)

	acc = NewTaskAccumulator("t", TaskGeneration, "rougel")
	require.NoError(t, acc.Record(ScalarScore(0.5)))
	require.NoError(t, acc.Record(CountScore(Counts{TruePositives: 1})))

	_, err = acc.Finalize()
	assert.ErrorIs(t, err, ErrMixedScoreShapes)
}

func TestTaskAccumulator_RejectsNaN(t *testing.T) {
	acc := NewTaskAccumulator("t", TaskGeneration, "rougel")
	require.NoError(t, acc.Record(ScalarScore(math.NaN())))

	_, err := acc.Finalize()
	assert.Error(t, err)
}

func TestTaskAccumulator_ResultBeforeFinalize(t *testing.T) {
	acc := NewTaskAccumulator("t", TaskGeneration, "rougel")
	require.NoError(t, acc.Record(ScalarScore(1)))

	_, err := acc.Result()
	assert.Error(t, err)
}

func TestCounts_F1(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   float64
	}{
		{"perfect", Counts{TruePositives: 3}, 1.0},
		{"balanced", Counts{TruePositives: 3, FalsePositives: 1, FalseNegatives: 1}, 0.75},
		{"no predictions", Counts{FalseNegatives: 2}, 0},
		{"no truth", Counts{FalsePositives: 2}, 0},
		{"empty", Counts{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.counts.F1(), 1e-9)
		})
	}
}
