package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/shopbench/infrastructure/parsers"
	"github.com/ahrav/shopbench/infrastructure/scoring"
	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

// Progress describes one scored sample, delivered to the progress
// callback during the scoring phase.
type Progress struct {
	// Done is the number of samples scored so far, Total the run size.
	Done, Total int

	// TaskName identifies the sample's task.
	TaskName string

	// Parsed is the typed value extracted from the raw model response.
	Parsed domain.ParsedValue

	// Score is the sample's score.
	Score domain.Score
}

// ProgressFunc receives periodic progress during scoring.
type ProgressFunc func(Progress)

// DriverMetrics holds the Prometheus instruments for run progress.
type DriverMetrics struct {
	samplesScored *prometheus.CounterVec
}

// NewDriverMetrics registers the run instruments with the given registerer.
func NewDriverMetrics(reg prometheus.Registerer) *DriverMetrics {
	m := &DriverMetrics{
		samplesScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopbench_samples_scored_total",
			Help: "Samples scored, by task name.",
		}, []string{"task_name"}),
	}
	reg.MustRegister(m.samplesScored)
	return m
}

// Driver runs one evaluation end to end. A run moves through four phases
// in order: pre-flight validation of every record's task type and metric,
// response generation against the candidate model, parsing and scoring,
// and per-task finalization into the report. Any configuration defect is
// fatal to the whole run; only malformed model responses degrade
// per-sample.
type Driver struct {
	model   ports.ModelClient
	parsers *parsers.Registry
	metrics *scoring.Registry

	progressEvery int
	progress      ProgressFunc
	runMetrics    *DriverMetrics

	tracer trace.Tracer
}

// Option customizes a Driver.
type Option func(*Driver)

// WithProgress reports every Nth scored sample to fn. every <= 0
// disables reporting.
func WithProgress(every int, fn ProgressFunc) Option {
	return func(d *Driver) {
		d.progressEvery = every
		d.progress = fn
	}
}

// WithDriverMetrics wires Prometheus instruments into the run.
func WithDriverMetrics(m *DriverMetrics) Option {
	return func(d *Driver) { d.runMetrics = m }
}

// NewDriver creates a driver over the given model and registries.
func NewDriver(model ports.ModelClient, p *parsers.Registry, m *scoring.Registry, opts ...Option) *Driver {
	d := &Driver{
		model:   model,
		parsers: p,
		metrics: m,
		tracer:  otel.Tracer("evaluation-driver"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run evaluates every record and returns the per-task report.
func (d *Driver) Run(ctx context.Context, records []domain.TaskRecord) (domain.Report, error) {
	ctx, span := d.tracer.Start(ctx, "Driver.Run",
		trace.WithAttributes(attribute.Int("run.records", len(records))))
	defer span.End()

	report, err := d.run(ctx, records)
	if err != nil {
		span.RecordError(err)
		return domain.Report{}, err
	}
	span.SetAttributes(attribute.Float64("run.overall_score", report.OverallScore))
	return report, nil
}

func (d *Driver) run(ctx context.Context, records []domain.TaskRecord) (domain.Report, error) {
	if len(records) == 0 {
		return domain.Report{}, domain.ErrNoSamples
	}
	if err := d.preflight(records); err != nil {
		return domain.Report{}, err
	}

	responses, err := d.generate(ctx, records)
	if err != nil {
		return domain.Report{}, err
	}

	rows, err := d.score(ctx, records, responses)
	if err != nil {
		return domain.Report{}, err
	}

	return domain.BuildReport(rows)
}

// preflight resolves every record's parser and metric before any model
// call is made, so a dataset typo cannot waste a half-finished run.
func (d *Driver) preflight(records []domain.TaskRecord) error {
	for i, record := range records {
		if _, err := d.parsers.For(record.TaskType); err != nil {
			return domain.NewConfigError(record.TaskName, record.Metric,
				fmt.Errorf("record %d: %w", i, err))
		}
		if _, err := d.metrics.Get(record.Metric); err != nil {
			return domain.NewConfigError(record.TaskName, record.Metric,
				fmt.Errorf("record %d: %w", i, err))
		}
	}
	return nil
}

// generate collects one raw response per record, in record order. Records
// are grouped by task type because the generation constraint (the
// single-token multiple-choice budget) is a task-type property, and the
// batched path fans each group out through the model's preferred batch
// size.
func (d *Driver) generate(ctx context.Context, records []domain.TaskRecord) ([]string, error) {
	ctx, span := d.tracer.Start(ctx, "Driver.Generate")
	defer span.End()

	groups := make(map[domain.TaskType][]int)
	var order []domain.TaskType
	for i, record := range records {
		if _, seen := groups[record.TaskType]; !seen {
			order = append(order, record.TaskType)
		}
		groups[record.TaskType] = append(groups[record.TaskType], i)
	}

	responses := make([]string, len(records))
	for _, taskType := range order {
		indexes := groups[taskType]
		isMultipleChoice := taskType == domain.TaskMultipleChoice

		prompts := make([]string, len(indexes))
		for j, i := range indexes {
			prompts[j] = records[i].Input
		}

		outputs, err := d.predictAll(ctx, prompts, isMultipleChoice)
		if err != nil {
			return nil, fmt.Errorf("generate %s responses: %w", taskType, err)
		}
		for j, i := range indexes {
			responses[i] = outputs[j]
		}
	}
	return responses, nil
}

// predictAll uses the batched path when the model supports it and falls
// back to sequential prediction otherwise.
func (d *Driver) predictAll(ctx context.Context, prompts []string, isMultipleChoice bool) ([]string, error) {
	if batcher, ok := d.model.(ports.BatchModelClient); ok {
		size := batcher.BatchSize()
		if size <= 0 {
			size = len(prompts)
		}

		outputs := make([]string, 0, len(prompts))
		for start := 0; start < len(prompts); start += size {
			end := min(start+size, len(prompts))
			batch, err := batcher.BatchPredict(ctx, prompts[start:end], isMultipleChoice)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, batch...)
		}
		return outputs, nil
	}

	outputs := make([]string, len(prompts))
	for i, prompt := range prompts {
		output, err := d.model.Predict(ctx, prompt, isMultipleChoice)
		if err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i, err)
		}
		outputs[i] = output
	}
	return outputs, nil
}

// score parses every response, scores it against its ground truth, and
// accumulates per task. Tasks appear in the report in first-seen dataset
// order.
func (d *Driver) score(ctx context.Context, records []domain.TaskRecord, responses []string) ([]domain.ReportRow, error) {
	ctx, span := d.tracer.Start(ctx, "Driver.Score")
	defer span.End()

	accumulators := make(map[string]*domain.TaskAccumulator)
	var order []string

	for i, record := range records {
		parsed, err := d.parsers.Parse(record.TaskType, responses[i])
		if err != nil {
			return nil, domain.NewConfigError(record.TaskName, record.Metric, err)
		}

		metric, err := d.metrics.Get(record.Metric)
		if err != nil {
			return nil, domain.NewConfigError(record.TaskName, record.Metric, err)
		}

		sample, err := metric.Score(ctx, parsed, record.Output)
		switch {
		case errors.Is(err, domain.ErrEmptyTruthSet):
			// A record with nothing to hit scores zero rather than
			// aborting the run.
			sample = domain.ScalarScore(0)
		case err != nil:
			return nil, domain.NewConfigError(record.TaskName, record.Metric,
				fmt.Errorf("record %d: %w", i, err))
		}

		acc, ok := accumulators[record.TaskName]
		if !ok {
			acc = domain.NewTaskAccumulator(record.TaskName, record.TaskType, record.Metric)
			accumulators[record.TaskName] = acc
			order = append(order, record.TaskName)
		}
		if err := acc.Record(sample); err != nil {
			return nil, err
		}

		if d.runMetrics != nil {
			d.runMetrics.samplesScored.WithLabelValues(record.TaskName).Inc()
		}
		if d.progress != nil && d.progressEvery > 0 && (i+1)%d.progressEvery == 0 {
			d.progress(Progress{
				Done:     i + 1,
				Total:    len(records),
				TaskName: record.TaskName,
				Parsed:   parsed,
				Score:    sample,
			})
		}
	}

	rows := make([]domain.ReportRow, 0, len(order))
	for _, taskName := range order {
		acc := accumulators[taskName]
		if _, err := acc.Finalize(); err != nil {
			return nil, err
		}
		row, err := acc.Result()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
