package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by the evaluation pipeline.
var (
	// ErrUnsupportedTaskType indicates a task type with no registered parser.
	// This is a configuration error and aborts the run.
	ErrUnsupportedTaskType = errors.New("unsupported task type")

	// ErrUnknownMetric indicates a metric name with no registered scoring
	// function. This is a configuration error and aborts the run.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrAlreadyFinalized indicates a second Finalize call on a task
	// accumulator; reduction happens exactly once per task.
	ErrAlreadyFinalized = errors.New("task accumulator already finalized")

	// ErrNoSamples indicates an attempt to finalize a task that recorded
	// no sample scores.
	ErrNoSamples = errors.New("no sample scores recorded")

	// ErrEmptyTruthSet indicates a set-overlap metric received an empty
	// ground truth set. The caller guards this degenerate case and records
	// a zero score instead of dividing by zero.
	ErrEmptyTruthSet = errors.New("ground truth set is empty")

	// ErrNoTasks indicates a report was requested for a run that produced
	// no finalized tasks.
	ErrNoTasks = errors.New("no tasks to report")

	// ErrMixedScoreShapes indicates a task mixed scalar and count-tuple
	// sample scores, which has no defined reduction.
	ErrMixedScoreShapes = errors.New("task mixes scalar and count-tuple scores")
)

// ConfigError wraps a configuration defect with the task and metric that
// triggered it, so the run's caller can identify the offending record.
type ConfigError struct {
	// TaskName is the task whose record exposed the defect.
	TaskName string

	// Metric is the declared metric name, when relevant.
	Metric string

	// Err is the underlying configuration error.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Metric != "" {
		return fmt.Sprintf("configuration error for task %q (metric %q): %v", e.TaskName, e.Metric, e.Err)
	}
	return fmt.Sprintf("configuration error for task %q: %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As matching.
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError creates a ConfigError for the given task and metric.
func NewConfigError(taskName, metric string, err error) *ConfigError {
	return &ConfigError{TaskName: taskName, Metric: metric, Err: err}
}
