package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// ReportRow summarizes one task after reduction. The JSON field names
// match the reference harness's persisted summary.
type ReportRow struct {
	TaskName     string   `json:"task_name"`
	TaskType     TaskType `json:"task_type"`
	Metric       string   `json:"metric"`
	NumSamples   int      `json:"num_samples"`
	OverallScore float64  `json:"overall_score"`
}

// Report is the final output of a run: one row per task plus the run's
// single overall score, the unweighted mean of the per-task overall
// scores. A report is produced once per run and never updated.
type Report struct {
	Rows         []ReportRow
	OverallScore float64
}

// BuildReport computes the mean-of-task-means final score over the given
// rows. A run that finalized no tasks has no defined score and fails.
func BuildReport(rows []ReportRow) (Report, error) {
	if len(rows) == 0 {
		return Report{}, ErrNoTasks
	}
	var sum float64
	for _, r := range rows {
		sum += r.OverallScore
	}
	return Report{
		Rows:         rows,
		OverallScore: sum / float64(len(rows)),
	}, nil
}

// WriteJSONL persists the per-task rows as line-delimited JSON, the same
// format the dataset itself uses.
func (r Report) WriteJSONL(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, row := range r.Rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode report row for task %q: %w", row.TaskName, err)
		}
	}
	return nil
}

// WriteTable prints a human-readable per-task summary followed by the
// overall score.
func (r Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "task_name\ttask_type\tmetric\tnum_samples\toverall_score")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.4f\n",
			row.TaskName, row.TaskType, row.Metric, row.NumSamples, row.OverallScore)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nOverall Score: %.4f\n", r.OverallScore)
	return err
}
