// Package domain contains the core types of the evaluation pipeline:
// task records, parsed model outputs, sample scores, per-task accumulators,
// and the final report. The types are plain data with no infrastructure
// dependencies so they can flow between parsers, metrics, and the driver.
package domain

import (
	"encoding/json"
	"fmt"
)

// TaskType identifies one of the five benchmark categories. The value
// determines which parser interprets the raw model output and what shape
// the ground truth takes.
type TaskType string

// The closed set of task types supported by the benchmark.
const (
	// TaskMultipleChoice expects a single integer option index.
	TaskMultipleChoice TaskType = "multiple-choice"

	// TaskGeneration expects free text scored by a text-similarity metric.
	TaskGeneration TaskType = "generation"

	// TaskRetrieval expects a short list of selected item indexes.
	TaskRetrieval TaskType = "retrieval"

	// TaskRanking expects an ordered, duplicate-free list of ranks.
	TaskRanking TaskType = "ranking"

	// TaskNamedEntityRecognition expects a list of entity names.
	TaskNamedEntityRecognition TaskType = "named_entity_recognition"
)

// String returns the wire representation of the task type.
func (t TaskType) String() string { return string(t) }

// ParseTaskType validates a raw task type string from the dataset.
// An unrecognized value is a configuration error, not bad data, so it
// returns ErrUnsupportedTaskType rather than degrading.
func ParseTaskType(s string) (TaskType, error) {
	switch TaskType(s) {
	case TaskMultipleChoice, TaskGeneration, TaskRetrieval, TaskRanking, TaskNamedEntityRecognition:
		return TaskType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedTaskType, s)
	}
}

// TaskRecord is one evaluation unit loaded from the line-delimited JSON
// dataset. The JSON field names are the wire contract with the benchmark
// dataset and must not change. Records are immutable once loaded.
type TaskRecord struct {
	// TaskName groups samples into tasks for aggregation.
	TaskName string `json:"task_name" validate:"required"`

	// TaskType selects the response parser.
	TaskType TaskType `json:"task_type" validate:"required"`

	// Metric names the scoring function; it must exist in the metric
	// registry or the run aborts.
	Metric string `json:"metric" validate:"required"`

	// Input is the prompt text sent to the model collaborator.
	Input string `json:"input_field"`

	// Output holds the ground truth; its type depends on the task type
	// and metric, so it stays raw until the metric decodes it.
	Output GroundTruth `json:"output_field"`
}

// GroundTruth is the typed view over a record's output_field. Decoding is
// deferred to the metric that consumes the truth, because the expected
// shape (int, number list, string list, text) is metric-specific.
type GroundTruth struct {
	raw json.RawMessage
}

// NewGroundTruth wraps a raw JSON value as ground truth. Intended for
// tests and dataset generators; the dataset loader populates truths via
// UnmarshalJSON.
func NewGroundTruth(raw json.RawMessage) GroundTruth {
	return GroundTruth{raw: append(json.RawMessage(nil), raw...)}
}

// UnmarshalJSON captures the raw value without interpreting it.
func (g *GroundTruth) UnmarshalJSON(data []byte) error {
	g.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original raw value.
func (g GroundTruth) MarshalJSON() ([]byte, error) {
	if len(g.raw) == 0 {
		return []byte("null"), nil
	}
	return g.raw, nil
}

// IsZero reports whether no truth value was present in the record.
func (g GroundTruth) IsZero() bool { return len(g.raw) == 0 }

// Int decodes the truth as a single integer (multiple-choice answers).
func (g GroundTruth) Int() (int, error) {
	var v int
	if err := json.Unmarshal(g.raw, &v); err != nil {
		return 0, fmt.Errorf("ground truth is not an integer: %w", err)
	}
	return v, nil
}

// Ints decodes the truth as an integer list (retrieval answer sets).
func (g GroundTruth) Ints() ([]int, error) {
	var v []int
	if err := json.Unmarshal(g.raw, &v); err != nil {
		return nil, fmt.Errorf("ground truth is not an integer list: %w", err)
	}
	return v, nil
}

// Floats decodes the truth as a number list (ranking relevance weights).
func (g GroundTruth) Floats() ([]float64, error) {
	var v []float64
	if err := json.Unmarshal(g.raw, &v); err != nil {
		return nil, fmt.Errorf("ground truth is not a number list: %w", err)
	}
	return v, nil
}

// Strings decodes the truth as a string list (entity label sets).
func (g GroundTruth) Strings() ([]string, error) {
	var v []string
	if err := json.Unmarshal(g.raw, &v); err != nil {
		return nil, fmt.Errorf("ground truth is not a string list: %w", err)
	}
	return v, nil
}

// Text decodes the truth as a single string (generation references).
func (g GroundTruth) Text() (string, error) {
	var v string
	if err := json.Unmarshal(g.raw, &v); err != nil {
		return "", fmt.Errorf("ground truth is not a string: %w", err)
	}
	return v, nil
}

// Texts decodes the truth as either one string or a list of strings.
// Similarity metrics accept multi-reference truths, so a bare string is
// promoted to a single-element list.
func (g GroundTruth) Texts() ([]string, error) {
	var one string
	if err := json.Unmarshal(g.raw, &one); err == nil {
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(g.raw, &many); err != nil {
		return nil, fmt.Errorf("ground truth is neither a string nor a string list: %w", err)
	}
	return many, nil
}
