package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GoogleDefaultModel is used when no model is configured for the
// google provider.
const GoogleDefaultModel = "gemini-2.0-flash"

func init() {
	RegisterFactory("google", newGoogleCore)
}

// googleCore implements Core against the Gemini API.
type googleCore struct {
	client *genai.Client
	model  string
	config ClientConfig
}

func newGoogleCore(config ClientConfig) (Core, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = GoogleDefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create google client: %w", err)
	}

	return &googleCore{client: client, model: model, config: config}, nil
}

func (c *googleCore) ModelName() string { return c.model }

func (c *googleCore) Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	generationConfig := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(c.config.maxTokensFor(isMultipleChoice)),
		Temperature:     genai.Ptr[float32](0),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, generationConfig)
	if err != nil {
		return "", classifyGoogleError(err)
	}

	content := resp.Text()
	if content == "" {
		return "", fmt.Errorf("google: %w", ErrEmptyResponse)
	}
	return content, nil
}

// classifyGoogleError maps quota rejections onto ErrRateLimited so the
// retry middleware treats them as transient.
func classifyGoogleError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("google: %w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("google: %w", err)
}
