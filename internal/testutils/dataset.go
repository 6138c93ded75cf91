package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	"github.com/ahrav/shopbench/internal/domain"
)

// GeneratorConfig controls the synthetic dataset generator.
type GeneratorConfig struct {
	// Seed drives the generator; equal seeds produce equal datasets.
	Seed int64

	// SamplesPerTask is how many records each synthetic task gets.
	SamplesPerTask int
}

// Product vocabulary the generator draws prompts and truths from.
var (
	productNames = []string{
		"wireless earbuds", "stainless steel water bottle", "ergonomic office chair",
		"yoga mat", "mechanical keyboard", "air fryer", "running shoes",
		"portable charger", "noise cancelling headphones", "electric kettle",
	}

	productBrands = []string{
		"Acme", "Northwind", "Contoso", "Globex", "Initech",
	}

	categoryOptions = []string{
		"Electronics", "Home & Kitchen", "Sports & Outdoors", "Office Products",
	}

	reviewSnippets = []string{
		"arrived quickly and works exactly as described",
		"battery life is shorter than advertised",
		"comfortable for long sessions and easy to clean",
		"stopped working after two weeks, had to return it",
	}
)

// GenerateDataset produces a deterministic synthetic benchmark covering
// every task type and a representative metric for each. The records are
// shaped like real dataset lines so the loader, parsers, and metrics all
// get exercised end to end.
func GenerateDataset(cfg GeneratorConfig) []domain.TaskRecord {
	if cfg.SamplesPerTask <= 0 {
		cfg.SamplesPerTask = 10
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	var records []domain.TaskRecord
	for i := 0; i < cfg.SamplesPerTask; i++ {
		records = append(records,
			multipleChoiceRecord(rng),
			retrievalRecord(rng),
			rankingRecord(rng),
			nerRecord(rng),
			generationRecord(rng),
		)
	}
	return records
}

// WriteDataset persists records as line-delimited JSON, the dataset's
// on-disk format.
func WriteDataset(w io.Writer, records []domain.TaskRecord) error {
	enc := json.NewEncoder(w)
	for i, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}

func truth(v any) domain.GroundTruth {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err) // generator controls every value it marshals
	}
	return domain.NewGroundTruth(raw)
}

func multipleChoiceRecord(rng *rand.Rand) domain.TaskRecord {
	product := productNames[rng.Intn(len(productNames))]
	answer := rng.Intn(len(categoryOptions))

	prompt := fmt.Sprintf(
		"Which category does the product %q belong to?\n", product)
	for i, option := range categoryOptions {
		prompt += fmt.Sprintf("%d. %s\n", i, option)
	}
	prompt += "Answer with the option number only."

	return domain.TaskRecord{
		TaskName: "product_category",
		TaskType: domain.TaskMultipleChoice,
		Metric:   "accuracy",
		Input:    prompt,
		Output:   truth(answer),
	}
}

func retrievalRecord(rng *rand.Rand) domain.TaskRecord {
	query := productNames[rng.Intn(len(productNames))]
	relevant := rng.Perm(10)[:3]

	return domain.TaskRecord{
		TaskName: "related_product_retrieval",
		TaskType: domain.TaskRetrieval,
		Metric:   "hit rate@3",
		Input: fmt.Sprintf(
			"A shopper searched for %q. From the numbered candidate list above, "+
				"reply with the indexes of up to 3 relevant products, comma separated.", query),
		Output: truth(relevant),
	}
}

func rankingRecord(rng *rand.Rand) domain.TaskRecord {
	query := productNames[rng.Intn(len(productNames))]
	weights := make([]float64, 5)
	for i := range weights {
		weights[i] = float64(rng.Intn(3)) // graded relevance 0..2
	}

	return domain.TaskRecord{
		TaskName: "query_product_ranking",
		TaskType: domain.TaskRanking,
		Metric:   "ndcg",
		Input: fmt.Sprintf(
			"Rank the 5 candidate products above by relevance to the query %q. "+
				"Reply with the candidate numbers in order, comma separated.", query),
		Output: truth(weights),
	}
}

func nerRecord(rng *rand.Rand) domain.TaskRecord {
	brand := productBrands[rng.Intn(len(productBrands))]
	product := productNames[rng.Intn(len(productNames))]

	return domain.TaskRecord{
		TaskName: "product_entity_extraction",
		TaskType: domain.TaskNamedEntityRecognition,
		Metric:   "micro f1",
		Input: fmt.Sprintf(
			"Extract the brand and product entities from: \"The %s %s is on sale.\" "+
				"Reply with a list of entity strings.", brand, product),
		Output: truth([]string{brand, product}),
	}
}

func generationRecord(rng *rand.Rand) domain.TaskRecord {
	product := productNames[rng.Intn(len(productNames))]
	snippet := reviewSnippets[rng.Intn(len(reviewSnippets))]

	return domain.TaskRecord{
		TaskName: "review_summarization",
		TaskType: domain.TaskGeneration,
		Metric:   "rougel",
		Input: fmt.Sprintf(
			"Summarize this review of the %s in one sentence: %q", product, snippet),
		Output: truth(snippet),
	}
}
