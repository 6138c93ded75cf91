package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicDefaultModel is used when no model is configured for the
// anthropic provider.
const AnthropicDefaultModel = "claude-3-5-haiku-20241022"

func init() {
	RegisterFactory("anthropic", newAnthropicCore)
}

// anthropicCore implements Core against Anthropic's Messages API.
type anthropicCore struct {
	client anthropic.Client
	model  string
	config ClientConfig
}

func newAnthropicCore(config ClientConfig) (Core, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = AnthropicDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &anthropicCore{
		client: anthropic.NewClient(opts...),
		model:  model,
		config: config,
	}, nil
}

func (c *anthropicCore) ModelName() string { return c.model }

func (c *anthropicCore) Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.config.maxTokensFor(isMultipleChoice)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(content.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return text.String(), nil
}
