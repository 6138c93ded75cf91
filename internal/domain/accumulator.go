package domain

import (
	"fmt"
	"math"
)

// TaskAccumulator collects the sample scores of one task and reduces them
// to a single overall score. The reduction rule follows the score shape:
// scalar samples are averaged arithmetically, while count-tuple samples
// (the micro-F1 family) are summed component-wise and recombined into a
// global precision/recall/F1.
//
// Lifecycle: created on the first sample of a task, appended to per
// sample, finalized exactly once after all samples are processed. Record
// after Finalize and a second Finalize are both errors.
type TaskAccumulator struct {
	taskName string
	taskType TaskType
	metric   string

	samples []Score

	finalized bool
	overall   float64
}

// NewTaskAccumulator creates an accumulator for one task identity.
func NewTaskAccumulator(taskName string, taskType TaskType, metric string) *TaskAccumulator {
	return &TaskAccumulator{
		taskName: taskName,
		taskType: taskType,
		metric:   metric,
	}
}

// TaskName returns the task identity this accumulator is keyed by.
func (a *TaskAccumulator) TaskName() string { return a.taskName }

// TaskType returns the task's benchmark category.
func (a *TaskAccumulator) TaskType() TaskType { return a.taskType }

// Metric returns the metric name shared by all of the task's samples.
func (a *TaskAccumulator) Metric() string { return a.metric }

// NumSamples returns how many sample scores have been recorded.
func (a *TaskAccumulator) NumSamples() int { return len(a.samples) }

// Record appends one sample score. It fails if the task has already been
// finalized; the accumulator is never mutated after reduction.
func (a *TaskAccumulator) Record(s Score) error {
	if a.finalized {
		return fmt.Errorf("task %q: record after finalize: %w", a.taskName, ErrAlreadyFinalized)
	}
	a.samples = append(a.samples, s)
	return nil
}

// Finalize reduces the recorded samples to the task's overall score.
// It may be called exactly once; a second call returns ErrAlreadyFinalized.
func (a *TaskAccumulator) Finalize() (float64, error) {
	if a.finalized {
		return 0, fmt.Errorf("task %q: %w", a.taskName, ErrAlreadyFinalized)
	}
	if len(a.samples) == 0 {
		return 0, fmt.Errorf("task %q: %w", a.taskName, ErrNoSamples)
	}

	overall, err := reduce(a.samples)
	if err != nil {
		return 0, fmt.Errorf("task %q: %w", a.taskName, err)
	}

	a.finalized = true
	a.overall = overall
	return overall, nil
}

// Result returns the finalized report row. It fails if Finalize has not
// run yet.
func (a *TaskAccumulator) Result() (ReportRow, error) {
	if !a.finalized {
		return ReportRow{}, fmt.Errorf("task %q: result requested before finalize", a.taskName)
	}
	return ReportRow{
		TaskName:     a.taskName,
		TaskType:     a.taskType,
		Metric:       a.metric,
		NumSamples:   len(a.samples),
		OverallScore: a.overall,
	}, nil
}

// reduce applies the shape-appropriate reduction: component-wise count
// summation followed by F1 recombination for tuple scores, arithmetic
// mean for scalars. Mixing shapes within one task is undefined and
// rejected.
func reduce(samples []Score) (float64, error) {
	if samples[0].IsCounts() {
		var total Counts
		for i, s := range samples {
			if !s.IsCounts() {
				return 0, fmt.Errorf("sample %d is scalar: %w", i, ErrMixedScoreShapes)
			}
			total = total.Add(s.Counts())
		}
		return total.F1(), nil
	}

	var sum float64
	for i, s := range samples {
		if s.IsCounts() {
			return 0, fmt.Errorf("sample %d is a count tuple: %w", i, ErrMixedScoreShapes)
		}
		v := s.Value()
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid sample score at index %d: %f", i, v)
		}
		sum += v
	}
	return sum / float64(len(samples)), nil
}
