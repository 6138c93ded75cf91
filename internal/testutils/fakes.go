// Package testutils provides fakes and a synthetic dataset generator for
// exercising the evaluation pipeline without network access.
package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/ahrav/shopbench/internal/ports"
)

var _ ports.ModelClient = (*ScriptedModel)(nil)

// ScriptedModel replays canned responses keyed by prompt. Unknown prompts
// return the fallback, so tests only script the prompts they assert on.
type ScriptedModel struct {
	mu        sync.Mutex
	responses map[string]string
	fallback  string
	calls     int
}

// NewScriptedModel creates a model that answers prompts from the script
// and everything else with fallback.
func NewScriptedModel(script map[string]string, fallback string) *ScriptedModel {
	return &ScriptedModel{responses: script, fallback: fallback}
}

// Predict returns the scripted response for the prompt.
func (m *ScriptedModel) Predict(_ context.Context, prompt string, _ bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if response, ok := m.responses[prompt]; ok {
		return response, nil
	}
	return m.fallback, nil
}

// Calls returns how many predictions were requested.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ ports.ModelClient = (*FailingModel)(nil)

// FailingModel fails every prediction with a fixed error.
type FailingModel struct{ Err error }

// Predict always returns the configured error.
func (m *FailingModel) Predict(context.Context, string, bool) (string, error) {
	return "", m.Err
}

var _ ports.BatchModelClient = (*ScriptedBatchModel)(nil)

// ScriptedBatchModel wraps a ScriptedModel with a batched path, recording
// the batch sizes it was handed so tests can assert on chunking.
type ScriptedBatchModel struct {
	*ScriptedModel

	mu         sync.Mutex
	batchSize  int
	BatchSizes []int
}

// NewScriptedBatchModel creates a batched scripted model with the given
// preferred batch size.
func NewScriptedBatchModel(script map[string]string, fallback string, batchSize int) *ScriptedBatchModel {
	return &ScriptedBatchModel{
		ScriptedModel: NewScriptedModel(script, fallback),
		batchSize:     batchSize,
	}
}

// BatchSize returns the preferred batch length.
func (m *ScriptedBatchModel) BatchSize() int { return m.batchSize }

// BatchPredict answers each prompt from the script, in order.
func (m *ScriptedBatchModel) BatchPredict(ctx context.Context, prompts []string, isMultipleChoice bool) ([]string, error) {
	m.mu.Lock()
	m.BatchSizes = append(m.BatchSizes, len(prompts))
	m.mu.Unlock()

	responses := make([]string, len(prompts))
	for i, prompt := range prompts {
		response, err := m.Predict(ctx, prompt, isMultipleChoice)
		if err != nil {
			return nil, err
		}
		responses[i] = response
	}
	return responses, nil
}

var _ ports.EmbeddingClient = (*FakeEmbeddings)(nil)

// FakeEmbeddings returns fixed vectors keyed by text. Texts without a
// configured vector fail, which keeps similarity tests honest about what
// they embed.
type FakeEmbeddings struct {
	Vectors map[string][]float64
}

// Embed returns one configured vector per text, in input order.
func (f *FakeEmbeddings) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, ok := f.Vectors[text]
		if !ok {
			return nil, fmt.Errorf("no fake vector for %q", text)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
