package model

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIDefaultModel is used when no model is configured for the
// openai provider.
const OpenAIDefaultModel = "gpt-4o-mini"

func init() {
	RegisterFactory("openai", newOpenAICore)
}

// openAICore implements Core against the OpenAI chat completions API.
// With BaseURL set it also serves local OpenAI-compatible inference
// servers, which is the usual way to evaluate self-hosted candidates.
type openAICore struct {
	client *openai.Client
	model  string
	config ClientConfig
}

func newOpenAICore(config ClientConfig) (Core, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = OpenAIDefaultModel
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &openAICore{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		config: config,
	}, nil
}

func (c *openAICore) ModelName() string { return c.model }

// Predict sends one chat completion request. Decoding is greedy
// (temperature zero) so evaluation runs are reproducible, and the token
// budget collapses to a single token for multiple-choice prompts.
func (c *openAICore) Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.config.maxTokensFor(isMultipleChoice),
		Temperature: 0,
	})
	if err != nil {
		if apiErr, ok := err.(*openai.APIError); ok && apiErr.HTTPStatusCode == 429 {
			return "", fmt.Errorf("openai: %w: %v", ErrRateLimited, err)
		}
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
