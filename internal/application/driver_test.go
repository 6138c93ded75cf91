package application

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/shopbench/infrastructure/parsers"
	"github.com/ahrav/shopbench/infrastructure/scoring"
	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
	"github.com/ahrav/shopbench/internal/testutils"
)

func newTestDriver(t *testing.T, model ports.ModelClient, opts ...Option) *Driver {
	t.Helper()
	return NewDriver(model, parsers.NewRegistry(), scoring.NewRegistry(scoring.Config{}), opts...)
}

func record(taskName string, taskType domain.TaskType, metric, input string, truth any) domain.TaskRecord {
	raw, err := json.Marshal(truth)
	if err != nil {
		panic(err)
	}
	return domain.TaskRecord{
		TaskName: taskName,
		TaskType: taskType,
		Metric:   metric,
		Input:    input,
		Output:   domain.NewGroundTruth(raw),
	}
}

func TestDriver_Run_MultipleChoice(t *testing.T) {
	records := []domain.TaskRecord{
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q1", 1),
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q2", 2),
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q3", 3),
	}
	model := testutils.NewScriptedModel(map[string]string{
		"q1": "1",
		"q2": "3",
		"q3": "3",
	}, "")

	report, err := newTestDriver(t, model).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, "product_category", row.TaskName)
	assert.Equal(t, domain.TaskMultipleChoice, row.TaskType)
	assert.Equal(t, "accuracy", row.Metric)
	assert.Equal(t, 3, row.NumSamples)
	assert.InDelta(t, 2.0/3.0, row.OverallScore, 1e-9)
	assert.InDelta(t, 2.0/3.0, report.OverallScore, 1e-9)
}

func TestDriver_Run_MicroF1Summation(t *testing.T) {
	records := []domain.TaskRecord{
		record("product_entity_extraction", domain.TaskNamedEntityRecognition, "micro f1",
			"e1", []string{"apple", "banana", "cherry"}),
		record("product_entity_extraction", domain.TaskNamedEntityRecognition, "micro f1",
			"e2", []string{"cat"}),
	}
	model := testutils.NewScriptedModel(map[string]string{
		"e1": `["apple", "banana"]`, // tp=2 fp=0 fn=1
		"e2": `["dog"]`,             // tp=0 fp=1 fn=1
	}, "")

	report, err := newTestDriver(t, model).Run(context.Background(), records)
	require.NoError(t, err)

	// Counts sum across samples before F1: tp=2 fp=1 fn=2.
	require.Len(t, report.Rows, 1)
	assert.InDelta(t, 4.0/7.0, report.Rows[0].OverallScore, 1e-9)
}

func TestDriver_Run_TasksKeepFirstSeenOrder(t *testing.T) {
	records := []domain.TaskRecord{
		record("beta_task", domain.TaskGeneration, "rougel", "g1", "same text"),
		record("alpha_task", domain.TaskMultipleChoice, "accuracy", "q1", 0),
		record("beta_task", domain.TaskGeneration, "rougel", "g2", "same text"),
	}
	model := testutils.NewScriptedModel(map[string]string{
		"g1": "same text",
		"g2": "same text",
		"q1": "0",
	}, "")

	report, err := newTestDriver(t, model).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "beta_task", report.Rows[0].TaskName)
	assert.Equal(t, "alpha_task", report.Rows[1].TaskName)
	assert.InDelta(t, 1.0, report.OverallScore, 1e-9)
}

func TestDriver_Run_EmptyTruthScoresZero(t *testing.T) {
	records := []domain.TaskRecord{
		record("related_product_retrieval", domain.TaskRetrieval, "hit rate@3", "r1", []int{}),
		record("related_product_retrieval", domain.TaskRetrieval, "hit rate@3", "r2", []int{1, 2}),
	}
	model := testutils.NewScriptedModel(map[string]string{
		"r1": "1, 2",
		"r2": "1, 2",
	}, "")

	report, err := newTestDriver(t, model).Run(context.Background(), records)
	require.NoError(t, err)

	// First sample has nothing to hit and scores 0, second hits 2 of 2.
	require.Len(t, report.Rows, 1)
	assert.InDelta(t, 0.5, report.Rows[0].OverallScore, 1e-9)
}

func TestDriver_Run_UnknownMetricFailsBeforeGeneration(t *testing.T) {
	records := []domain.TaskRecord{
		record("product_entity_extraction", domain.TaskNamedEntityRecognition, "micro-f1",
			"e1", []string{"apple"}),
	}
	model := testutils.NewScriptedModel(nil, "")

	_, err := newTestDriver(t, model).Run(context.Background(), records)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownMetric)

	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "product_entity_extraction", cfgErr.TaskName)
	assert.Equal(t, "micro-f1", cfgErr.Metric)

	// Pre-flight validation must run before any model call.
	assert.Zero(t, model.Calls())
}

func TestDriver_Run_ModelFailureAborts(t *testing.T) {
	records := []domain.TaskRecord{
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q1", 1),
	}
	model := &testutils.FailingModel{Err: errors.New("backend down")}

	_, err := newTestDriver(t, model).Run(context.Background(), records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate")
	assert.Contains(t, err.Error(), "backend down")
}

func TestDriver_Run_BatchedModelChunksByBatchSize(t *testing.T) {
	var records []domain.TaskRecord
	script := map[string]string{}
	for _, prompt := range []string{"g1", "g2", "g3", "g4", "g5"} {
		records = append(records,
			record("review_summarization", domain.TaskGeneration, "rougel", prompt, "ref"))
		script[prompt] = "ref"
	}
	model := testutils.NewScriptedBatchModel(script, "", 2)

	report, err := newTestDriver(t, model).Run(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 1}, model.BatchSizes)
	assert.InDelta(t, 1.0, report.OverallScore, 1e-9)
}

func TestDriver_Run_MultipleChoiceFlagSetPerTaskType(t *testing.T) {
	records := []domain.TaskRecord{
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q1", 0),
		record("review_summarization", domain.TaskGeneration, "rougel", "g1", "ref"),
	}

	model := &flagRecordingModel{responses: map[string]string{"q1": "0", "g1": "ref"}}
	_, err := newTestDriver(t, model).Run(context.Background(), records)
	require.NoError(t, err)

	assert.True(t, model.flags["q1"])
	assert.False(t, model.flags["g1"])
}

func TestDriver_Run_ProgressCallback(t *testing.T) {
	records := []domain.TaskRecord{
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q1", 1),
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q2", 1),
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q3", 1),
		record("product_category", domain.TaskMultipleChoice, "accuracy", "q4", 1),
	}
	model := testutils.NewScriptedModel(nil, "1")

	var seen []Progress
	driver := newTestDriver(t, model, WithProgress(2, func(p Progress) {
		seen = append(seen, p)
	}))

	_, err := driver.Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, 2, seen[0].Done)
	assert.Equal(t, 4, seen[0].Total)
	assert.Equal(t, 4, seen[1].Done)
	assert.Equal(t, "product_category", seen[1].TaskName)
	assert.InDelta(t, 1.0, seen[1].Score.Value(), 1e-9)
}

func TestDriver_Run_NoRecords(t *testing.T) {
	model := testutils.NewScriptedModel(nil, "")
	_, err := newTestDriver(t, model).Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoSamples)
}

func TestDriver_Run_GeneratedDatasetSmoke(t *testing.T) {
	records := testutils.GenerateDataset(testutils.GeneratorConfig{Seed: 1, SamplesPerTask: 4})
	model := testutils.NewScriptedModel(nil, "0")

	report, err := newTestDriver(t, model).Run(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, report.Rows, 5)
	for _, row := range report.Rows {
		assert.Equal(t, 4, row.NumSamples)
		assert.GreaterOrEqual(t, row.OverallScore, 0.0)
		assert.LessOrEqual(t, row.OverallScore, 1.0)
	}
}

// flagRecordingModel captures the multiple-choice flag per prompt.
type flagRecordingModel struct {
	mu        sync.Mutex
	responses map[string]string
	flags     map[string]bool
}

func (m *flagRecordingModel) Predict(_ context.Context, prompt string, isMultipleChoice bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.flags == nil {
		m.flags = make(map[string]bool)
	}
	m.flags[prompt] = isMultipleChoice
	return m.responses[prompt], nil
}
