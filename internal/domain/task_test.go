package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskType(t *testing.T) {
	tests := []struct {
		input string
		want  TaskType
		ok    bool
	}{
		{"multiple-choice", TaskMultipleChoice, true},
		{"generation", TaskGeneration, true},
		{"retrieval", TaskRetrieval, true},
		{"ranking", TaskRanking, true},
		{"named_entity_recognition", TaskNamedEntityRecognition, true},
		{"multiple_choice", "", false},
		{"classification", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTaskType(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrUnsupportedTaskType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskRecord_UnmarshalWireFormat(t *testing.T) {
	line := `{"task_name":"product_category","task_type":"multiple-choice","metric":"accuracy","input_field":"Which category?","output_field":2}`

	var record TaskRecord
	require.NoError(t, json.Unmarshal([]byte(line), &record))

	assert.Equal(t, "product_category", record.TaskName)
	assert.Equal(t, TaskMultipleChoice, record.TaskType)
	assert.Equal(t, "accuracy", record.Metric)
	assert.Equal(t, "Which category?", record.Input)

	n, err := record.Output.Int()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGroundTruth_TypedAccessors(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		n, err := NewGroundTruth(json.RawMessage(`3`)).Int()
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		_, err = NewGroundTruth(json.RawMessage(`"3"`)).Int()
		assert.Error(t, err)
	})

	t.Run("ints", func(t *testing.T) {
		v, err := NewGroundTruth(json.RawMessage(`[1,2,3]`)).Ints()
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, v)
	})

	t.Run("floats", func(t *testing.T) {
		v, err := NewGroundTruth(json.RawMessage(`[1.0,0.0,2.0]`)).Floats()
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 0, 2}, v)
	})

	t.Run("strings", func(t *testing.T) {
		v, err := NewGroundTruth(json.RawMessage(`["a","b"]`)).Strings()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v)
	})

	t.Run("text", func(t *testing.T) {
		v, err := NewGroundTruth(json.RawMessage(`"reference"`)).Text()
		require.NoError(t, err)
		assert.Equal(t, "reference", v)
	})

	t.Run("texts promotes bare string", func(t *testing.T) {
		v, err := NewGroundTruth(json.RawMessage(`"only"`)).Texts()
		require.NoError(t, err)
		assert.Equal(t, []string{"only"}, v)

		v, err = NewGroundTruth(json.RawMessage(`["a","b"]`)).Texts()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v)

		_, err = NewGroundTruth(json.RawMessage(`42`)).Texts()
		assert.Error(t, err)
	})
}

func TestGroundTruth_RoundTrip(t *testing.T) {
	original := json.RawMessage(`{"nested":[1,2]}`)
	truth := NewGroundTruth(original)

	out, err := json.Marshal(truth)
	require.NoError(t, err)
	assert.JSONEq(t, string(original), string(out))

	assert.False(t, truth.IsZero())
	assert.True(t, GroundTruth{}.IsZero())
}
