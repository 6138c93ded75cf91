// Package application orchestrates an evaluation run: it loads the
// benchmark dataset, drives the candidate model over every record,
// parses and scores the responses, and aggregates per-task results into
// a final report.
package application

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// RunConfig is the top-level configuration for an evaluation run and the
// primary entry point for operators. It is loaded from YAML and validated
// before any work starts, so configuration defects surface immediately
// rather than mid-run.
type RunConfig struct {
	// DatasetPath locates the line-delimited JSON benchmark dataset.
	DatasetPath string `yaml:"dataset_path" validate:"required"`

	// ReportPath, when set, is where the per-task report rows are
	// persisted as line-delimited JSON alongside the console table.
	ReportPath string `yaml:"report_path"`

	// ProgressEvery controls how often per-sample progress is reported
	// during scoring; 0 disables progress reporting.
	ProgressEvery int `yaml:"progress_every" validate:"min=0"`

	// Model configures the candidate model collaborator under evaluation.
	Model ModelConfig `yaml:"model" validate:"required"`

	// Embeddings configures the sentence-embedding collaborator backing
	// the sent-transformer metric. Optional; runs whose dataset never
	// uses a similarity metric can omit it.
	Embeddings EmbeddingsConfig `yaml:"embeddings"`

	// MultilingualEmbeddings configures the collaborator backing the
	// multilingual-sent-transformer metric. Falls back to Embeddings
	// when omitted.
	MultilingualEmbeddings EmbeddingsConfig `yaml:"multilingual_embeddings"`
}

// ModelConfig configures the candidate model backend.
type ModelConfig struct {
	// Provider selects the registered backend: openai, anthropic,
	// google, or dummy.
	Provider string `yaml:"provider" validate:"required,oneof=openai anthropic google dummy"`

	// Name is the backend model identifier. Empty selects the
	// provider's default.
	Name string `yaml:"name"`

	// APIKey authenticates against the provider. The dummy provider
	// ignores it.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider endpoint, which is how
	// OpenAI-compatible local inference servers are addressed.
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`

	// MaxTokens bounds free-form generations. Zero uses the
	// provider default.
	MaxTokens int `yaml:"max_tokens" validate:"omitempty,min=1,max=4096"`

	// BatchSize is the bounded fan-out width for batched prediction.
	BatchSize int `yaml:"batch_size" validate:"omitempty,min=1,max=256"`

	// Seed drives the dummy provider for reproducible smoke runs.
	Seed int64 `yaml:"seed"`

	// MaxRetries is the total attempt count for transient failures,
	// including the first attempt. Zero disables retries.
	MaxRetries int `yaml:"max_retries" validate:"min=0,max=10"`

	// RequestsPerSecond caps the client-side request rate. Zero
	// disables rate limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"min=0"`
}

// EmbeddingsConfig configures an embedding collaborator.
type EmbeddingsConfig struct {
	// APIKey authenticates against the embeddings endpoint. An empty
	// key disables the collaborator.
	APIKey string `yaml:"api_key"`

	// Model names the embedding model; empty selects the default.
	Model string `yaml:"model"`

	// BaseURL overrides the default embeddings endpoint.
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
}

// Enabled reports whether the collaborator is configured at all.
func (c EmbeddingsConfig) Enabled() bool { return c.APIKey != "" }

// DefaultRunConfig returns a config suitable for offline smoke runs:
// the seeded dummy model against a local dataset, no external services.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		DatasetPath:   "data/development.json",
		ProgressEvery: 20,
		Model: ModelConfig{
			Provider: "dummy",
			Seed:     733,
		},
	}
}

// LoadRunConfig reads and validates a YAML run configuration.
func LoadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultRunConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return RunConfig{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
