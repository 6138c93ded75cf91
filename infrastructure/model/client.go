// Package model provides the candidate model collaborators the harness
// evaluates, behind the narrow ports.ModelClient contract.
//
// The package abstracts multiple backends (OpenAI-compatible servers,
// Anthropic, Google, and a seeded dummy for smoke runs) behind a common
// core interface, with cross-cutting concerns added through a middleware
// chain: retries, client-side rate limiting, Prometheus metrics, and
// OpenTelemetry tracing. Batching is layered generically on top of the
// core so every backend gains BatchPredict with bounded fan-out.
//
// Basic usage:
//
//	client, err := model.NewClient("openai", model.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	})
//	response, err := client.Predict(ctx, prompt, false)
package model

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/shopbench/internal/ports"
)

// Generation defaults shared across backends.
const (
	// DefaultMaxTokens bounds free-form generations.
	DefaultMaxTokens = 100

	// MultipleChoiceMaxTokens bounds multiple-choice generations, whose
	// answer is a single option index.
	MultipleChoiceMaxTokens = 1

	// DefaultBatchSize is the fan-out width for batched prediction.
	DefaultBatchSize = 16
)

// Core is the minimal surface a backend must implement. Middleware wraps
// any conforming implementation, so providers stay free of operational
// concerns.
type Core interface {
	// Predict generates one raw text response for the prompt. The
	// isMultipleChoice flag constrains decoding to a single option index.
	Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error)

	// ModelName returns the configured model identifier for logging and
	// metric labels.
	ModelName() string
}

// Middleware wraps a Core to add cross-cutting behavior. Middleware are
// applied in reverse order so the first entry is the outermost.
type Middleware func(Core) Core

// ClientConfig holds the settings for creating a model client.
type ClientConfig struct {
	// APIKey authenticates against the provider. The dummy provider
	// ignores it.
	APIKey string

	// Model names the backend model. Providers supply a default when empty.
	Model string

	// BaseURL overrides the provider's default endpoint; it is how
	// OpenAI-compatible local inference servers are addressed.
	BaseURL string

	// MaxTokens bounds free-form generations. Zero means DefaultMaxTokens.
	MaxTokens int

	// BatchSize is the bounded fan-out width for BatchPredict.
	// Zero means DefaultBatchSize.
	BatchSize int

	// Seed drives the dummy provider's generator for reproducible runs.
	Seed int64

	// Middleware is applied around the provider core, first entry outermost.
	Middleware []Middleware
}

// maxTokensFor resolves the generation budget for a request.
func (c ClientConfig) maxTokensFor(isMultipleChoice bool) int {
	if isMultipleChoice {
		return MultipleChoiceMaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

// Factory creates a provider core from configuration. Providers register
// themselves at init time, keyed by provider name.
type Factory func(ClientConfig) (Core, error)

var factories = map[string]Factory{}

// RegisterFactory registers a provider factory under a name. Custom
// backends can hook in without modifying this package.
func RegisterFactory(provider string, factory Factory) { factories[provider] = factory }

// Providers returns the registered provider names; useful in error
// messages and configuration validation.
func Providers() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

var _ ports.BatchModelClient = (*Client)(nil)

// Client implements ports.BatchModelClient over a middleware-wrapped
// provider core. Single predictions delegate to the core; batches fan out
// with bounded concurrency while preserving prompt order.
type Client struct {
	core      Core
	batchSize int
}

// NewClient assembles a provider core with the configured middleware
// chain and returns a ready batched client.
func NewClient(provider string, config ClientConfig) (*Client, error) {
	factory, ok := factories[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	// Apply middleware in reverse order so the first is the outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Client{core: core, batchSize: batchSize}, nil
}

// Predict generates one response through the middleware chain.
func (c *Client) Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error) {
	return c.core.Predict(ctx, prompt, isMultipleChoice)
}

// BatchPredict generates one response per prompt with bounded fan-out.
// The output order matches the input order; the first failure cancels
// the remaining requests.
func (c *Client) BatchPredict(ctx context.Context, prompts []string, isMultipleChoice bool) ([]string, error) {
	responses := make([]string, len(prompts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchSize)
	for i, prompt := range prompts {
		g.Go(func() error {
			response, err := c.core.Predict(gctx, prompt, isMultipleChoice)
			if err != nil {
				return fmt.Errorf("prompt %d: %w", i, err)
			}
			responses[i] = response
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// BatchSize returns the client's preferred batch length.
func (c *Client) BatchSize() int { return c.batchSize }

// ModelName returns the underlying model identifier.
func (c *Client) ModelName() string { return c.core.ModelName() }
