// Package scoring implements the benchmark's metric functions and the
// name-keyed registry the evaluation driver resolves them from. Metric
// names are the dataset's wire contract; an unregistered name is a
// configuration defect that aborts the run, never a per-sample condition.
package scoring

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

// Registered metric names, exactly as they appear in dataset records.
const (
	MetricAccuracy                    = "accuracy"
	MetricHitRate3                    = "hit rate@3"
	MetricRougeL                      = "rougel"
	MetricSentTransformer             = "sent-transformer"
	MetricMultilingualSentTransformer = "multilingual-sent-transformer"
	MetricMicroF1                     = "micro f1"
	MetricNDCG                        = "ndcg"
	MetricBLEU                        = "bleu"
	MetricJPBLEU                      = "jp-bleu"
)

// Config carries the shared, read-only collaborators some metrics need.
// Embedding clients are loaded once and reused across every scoring call;
// the registry never re-initializes them per sample.
type Config struct {
	// Embeddings backs the sent-transformer metric. May be nil, in which
	// case scoring a similarity sample fails as a configuration error.
	Embeddings ports.EmbeddingClient

	// MultilingualEmbeddings backs the multilingual-sent-transformer
	// metric. Falls back to Embeddings when nil.
	MultilingualEmbeddings ports.EmbeddingClient
}

// Registry maps metric names to scoring functions. The set is closed at
// construction; lookups of unknown names fail with a suggestion for the
// closest registered name.
type Registry struct {
	metrics map[string]ports.Metric
}

// NewRegistry builds the registry with every benchmark metric registered.
func NewRegistry(cfg Config) *Registry {
	multilingual := cfg.MultilingualEmbeddings
	if multilingual == nil {
		multilingual = cfg.Embeddings
	}

	reg := &Registry{metrics: make(map[string]ports.Metric)}
	for _, m := range []ports.Metric{
		accuracyMetric{},
		hitRateMetric{cutoff: 3},
		rougeLMetric{},
		&similarityMetric{name: MetricSentTransformer, embeddings: cfg.Embeddings},
		&similarityMetric{name: MetricMultilingualSentTransformer, embeddings: multilingual},
		microF1Metric{},
		ndcgMetric{},
		bleuMetric{name: MetricBLEU, tokenize: tokenize13a},
		bleuMetric{name: MetricJPBLEU, tokenize: tokenizeRunes},
	} {
		reg.metrics[m.Name()] = m
	}
	return reg
}

// Get resolves a metric by its dataset name. Unknown names return
// domain.ErrUnknownMetric with the closest registered name attached,
// since a near-miss string is almost always a dataset typo.
func (r *Registry) Get(name string) (ports.Metric, error) {
	if m, ok := r.metrics[name]; ok {
		return m, nil
	}
	if closest := r.closestName(name); closest != "" {
		return nil, fmt.Errorf("%w: %q (closest registered metric: %q)",
			domain.ErrUnknownMetric, name, closest)
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, name)
}

// Names returns the registered metric names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// closestName finds the registered name with the smallest edit distance
// to the unknown one.
func (r *Registry) closestName(name string) string {
	best := ""
	bestDist := -1
	for _, candidate := range r.Names() {
		d := levenshtein.ComputeDistance(name, candidate)
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
