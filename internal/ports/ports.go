// Package ports defines the interfaces between the evaluation core and
// its collaborators: the candidate model, the embedding backend, the
// response parsers, and the scoring metrics. The core consumes these
// through narrow contracts so backends can be swapped without touching
// parsing, scoring, or aggregation logic.
package ports

import (
	"context"

	"github.com/ahrav/shopbench/internal/domain"
)

// ModelClient is the candidate model collaborator: an opaque callable
// that maps a prompt to a raw text response. Implementations may be slow
// and blocking; the driver treats every call as potentially expensive.
//
// The isMultipleChoice flag lets backends constrain decoding for tasks
// whose answer is a single option index.
type ModelClient interface {
	// Predict generates one raw text response for the prompt.
	Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error)
}

// BatchModelClient is an optional extension for backends that generate
// more efficiently over homogeneous batches. The driver groups records by
// task type and feeds prompts in BatchSize chunks when this interface is
// available.
type BatchModelClient interface {
	ModelClient

	// BatchPredict generates one response per prompt, order-preserving.
	BatchPredict(ctx context.Context, prompts []string, isMultipleChoice bool) ([]string, error)

	// BatchSize returns the backend's preferred batch length.
	BatchSize() int
}

// EmbeddingClient produces sentence embeddings for the similarity
// metrics. Instances are loaded once and reused read-only across all
// scoring calls; implementations must be safe for repeated use without
// re-initialization.
type EmbeddingClient interface {
	// Embed returns one embedding vector per input text, order-preserving.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Parser converts one raw model response into the typed value for its
// task type. Parsers never fail on malformed input; they degrade to the
// task type's safe default (sentinel index, empty list, trimmed text).
type Parser interface {
	// TaskType identifies which benchmark category this parser serves.
	TaskType() domain.TaskType

	// Parse reduces the raw response to a typed value.
	Parse(raw string) domain.ParsedValue
}

// Metric is a pure scoring function from a parsed prediction and the
// ground truth to one sample score. Metrics that call external
// collaborators (embeddings) take a context; deterministic metrics ignore
// it. Implementations must be stateless or share only read-only state.
type Metric interface {
	// Name returns the registered metric name, the dataset's wire key.
	Name() string

	// Score evaluates one sample.
	Score(ctx context.Context, pred domain.ParsedValue, truth domain.GroundTruth) (domain.Score, error)
}
