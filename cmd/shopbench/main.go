// Command shopbench evaluates a candidate model against the shopping
// benchmark dataset and prints the per-task report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/ahrav/shopbench/infrastructure/model"
	"github.com/ahrav/shopbench/infrastructure/parsers"
	"github.com/ahrav/shopbench/infrastructure/scoring"
	"github.com/ahrav/shopbench/internal/application"
	"github.com/ahrav/shopbench/internal/domain"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to the YAML run configuration (overrides the other flags)")
		datasetPath = flag.String("dataset", "data/development.json", "Path to the line-delimited JSON dataset")
		reportPath  = flag.String("report", "", "Where to write the per-task report as line-delimited JSON")
		provider    = flag.String("provider", "dummy", "Model provider: openai, anthropic, google, or dummy")
		modelName   = flag.String("model", "", "Backend model name (provider default when empty)")
		seed        = flag.Int64("seed", 733, "Seed for the dummy provider")
	)
	flag.Parse()

	cfg := application.DefaultRunConfig()
	if *configPath != "" {
		loaded, err := application.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	} else {
		cfg.DatasetPath = *datasetPath
		cfg.ReportPath = *reportPath
		cfg.Model.Provider = *provider
		cfg.Model.Name = *modelName
		cfg.Model.Seed = *seed
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}
}

func run(ctx context.Context, cfg application.RunConfig) error {
	records, err := application.LoadDataset(cfg.DatasetPath)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d records from %s", len(records), cfg.DatasetPath)

	client, err := buildModel(cfg.Model)
	if err != nil {
		return err
	}

	scoringCfg, err := buildScoring(cfg)
	if err != nil {
		return err
	}

	driver := application.NewDriver(client, parsers.NewRegistry(), scoring.NewRegistry(scoringCfg),
		application.WithProgress(cfg.ProgressEvery, func(p application.Progress) {
			log.Printf("[%d/%d] %s parsed=%s score=%s", p.Done, p.Total, p.TaskName, p.Parsed, p.Score)
		}),
		application.WithDriverMetrics(application.NewDriverMetrics(prometheus.DefaultRegisterer)),
	)

	start := time.Now()
	report, err := driver.Run(ctx, records)
	if err != nil {
		return err
	}
	log.Printf("Scored %d records in %s", len(records), time.Since(start).Round(time.Millisecond))

	if err := report.WriteTable(os.Stdout); err != nil {
		return err
	}
	if cfg.ReportPath != "" {
		if err := writeReport(report, cfg.ReportPath); err != nil {
			return err
		}
		log.Printf("Report written to %s", cfg.ReportPath)
	}
	return nil
}

// buildModel assembles the candidate model client. Tracing wraps
// outermost so a span covers all attempts; the rate limiter sits inside
// the retrier so every retry attempt draws a fresh token.
func buildModel(cfg application.ModelConfig) (*model.Client, error) {
	var middleware []model.Middleware
	middleware = append(middleware, model.TracingMiddleware())
	middleware = append(middleware, model.MetricsMiddleware(model.NewRequestMetrics(prometheus.DefaultRegisterer)))
	if cfg.MaxRetries > 0 {
		middleware = append(middleware, model.RetryMiddleware(cfg.MaxRetries, time.Second))
	}
	if cfg.RequestsPerSecond > 0 {
		middleware = append(middleware, model.RateLimitMiddleware(rate.Limit(cfg.RequestsPerSecond), 1))
	}

	client, err := model.NewClient(cfg.Provider, model.ClientConfig{
		APIKey:     cfg.APIKey,
		Model:      cfg.Name,
		BaseURL:    cfg.BaseURL,
		MaxTokens:  cfg.MaxTokens,
		BatchSize:  cfg.BatchSize,
		Seed:       cfg.Seed,
		Middleware: middleware,
	})
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}
	return client, nil
}

// buildScoring wires the optional embedding collaborators into the metric
// registry configuration.
func buildScoring(cfg application.RunConfig) (scoring.Config, error) {
	var scoringCfg scoring.Config
	if cfg.Embeddings.Enabled() {
		embeddings, err := model.NewOpenAIEmbeddings(model.EmbeddingConfig{
			APIKey:  cfg.Embeddings.APIKey,
			Model:   cfg.Embeddings.Model,
			BaseURL: cfg.Embeddings.BaseURL,
		})
		if err != nil {
			return scoring.Config{}, fmt.Errorf("create embeddings client: %w", err)
		}
		scoringCfg.Embeddings = embeddings
	}
	if cfg.MultilingualEmbeddings.Enabled() {
		embeddings, err := model.NewOpenAIEmbeddings(model.EmbeddingConfig{
			APIKey:  cfg.MultilingualEmbeddings.APIKey,
			Model:   cfg.MultilingualEmbeddings.Model,
			BaseURL: cfg.MultilingualEmbeddings.BaseURL,
		})
		if err != nil {
			return scoring.Config{}, fmt.Errorf("create multilingual embeddings client: %w", err)
		}
		scoringCfg.MultilingualEmbeddings = embeddings
	}
	return scoringCfg, nil
}

func writeReport(report domain.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := report.WriteJSONL(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
