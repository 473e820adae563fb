package ark

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"

	"lingoreel/internal/config"
)

const (
	defaultModel   = "doubao-seed-1-6-flash-250615"
	defaultBaseURL = "https://ark.cn-beijing.volces.com/api/v3"
)

// LLMClient wraps the volcengine Ark chat completion API through the
// official SDK. It serves the ai.provider=ark path directly; the
// openai/azure providers go through the eino chat model instead.
type LLMClient struct {
	client      *arkruntime.Client
	model       string
	maxTokens   int
	temperature float64
	mu          sync.Mutex
}

// NewLLMClient creates an Ark chat client from the AI config.
func NewLLMClient(cfg *config.AIConfig) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ark api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}

	client := arkruntime.NewClientWithApiKey(cfg.APIKey, arkruntime.WithBaseUrl(baseURL))

	return &LLMClient{
		client:      client,
		model:       modelName,
		maxTokens:   cfg.Options.MaxTokens,
		temperature: cfg.Options.Temperature,
	}, nil
}

// Complete sends a single-turn user prompt and returns the model's text.
// temperature <= 0 falls back to the configured default.
func (c *LLMClient) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if temperature <= 0 {
		temperature = c.temperature
	}

	content := prompt
	input := &model.ChatCompletionRequest{
		Model: c.model,
		Messages: []*model.ChatCompletionMessage{
			{
				Role:    "user",
				Content: &model.ChatCompletionMessageContent{StringValue: &content},
			},
		},
	}
	if c.maxTokens > 0 {
		input.MaxTokens = c.maxTokens
	}
	if temperature > 0 {
		input.Temperature = float32(temperature)
	}

	output, err := c.client.CreateChatCompletion(ctx, input)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("ark chat completion failed")
		return "", fmt.Errorf("ark api call: %w", err)
	}

	if len(output.Choices) == 0 {
		return "", fmt.Errorf("no choices in ark response")
	}
	msg := output.Choices[0].Message
	if msg.Content == nil || msg.Content.StringValue == nil {
		return "", fmt.Errorf("empty content in ark response")
	}
	return *msg.Content.StringValue, nil
}
