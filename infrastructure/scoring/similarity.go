package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

// ErrNoEmbeddingClient indicates a similarity metric was asked to score a
// sample but no embedding collaborator was configured. This is a setup
// defect, fatal to the run.
var ErrNoEmbeddingClient = errors.New("no embedding client configured")

var _ ports.Metric = (*similarityMetric)(nil)

// similarityMetric scores generated text by cosine similarity between its
// sentence embedding and the ground truth's. Multi-reference truths are
// averaged across all variants before clamping; negative similarity is
// clamped to zero so the metric stays in [0,1].
//
// The embedding client is shared, read-only state initialized once for
// the whole run.
type similarityMetric struct {
	name       string
	embeddings ports.EmbeddingClient
}

func (m *similarityMetric) Name() string { return m.name }

func (m *similarityMetric) Score(ctx context.Context, pred domain.ParsedValue, truth domain.GroundTruth) (domain.Score, error) {
	if m.embeddings == nil {
		return domain.Score{}, fmt.Errorf("%s: %w", m.name, ErrNoEmbeddingClient)
	}

	refs, err := truth.Texts()
	if err != nil {
		return domain.Score{}, fmt.Errorf("%s: %w", m.name, err)
	}
	if len(refs) == 0 {
		return domain.Score{}, fmt.Errorf("%s: %w", m.name, domain.ErrEmptyTruthSet)
	}

	// One embedding call covers the generation and every reference.
	vectors, err := m.embeddings.Embed(ctx, append([]string{pred.Text}, refs...))
	if err != nil {
		return domain.Score{}, fmt.Errorf("%s: embed: %w", m.name, err)
	}
	if len(vectors) != len(refs)+1 {
		return domain.Score{}, fmt.Errorf("%s: embedding count mismatch: got %d, want %d",
			m.name, len(vectors), len(refs)+1)
	}

	generated := vectors[0]
	var sum float64
	for _, ref := range vectors[1:] {
		sum += cosineSimilarity(generated, ref)
	}

	score := sum / float64(len(refs))
	if score < 0 {
		score = 0
	}
	return domain.ScalarScore(score), nil
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has zero magnitude.
func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
