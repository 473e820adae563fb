package providers

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"lingoreel/internal/ai/component"
	"lingoreel/internal/config"
	"lingoreel/internal/pkg/ark"
	"lingoreel/internal/pkg/dialogtools"
)

// EinoProvider adapts an eino ChatModel to the dialogtools LLM interface.
// It serves the openai and azure providers.
type EinoProvider struct {
	chatModel   model.ChatModel
	temperature float64
}

// NewEinoProvider wraps a chat model. temperature > 0 overrides the
// model's configured default per call.
func NewEinoProvider(chatModel model.ChatModel, temperature float64) *EinoProvider {
	return &EinoProvider{chatModel: chatModel, temperature: temperature}
}

func (p *EinoProvider) Generate(ctx context.Context, prompt string) (string, error) {
	var opts []model.Option
	if p.temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(p.temperature)))
	}

	resp, err := p.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, opts...)
	if err != nil {
		return "", fmt.Errorf("chat model generate: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", fmt.Errorf("empty model response")
	}
	return resp.Content, nil
}

// ArkProvider adapts the volcengine Ark SDK client. It serves
// ai.provider=ark through the official SDK directly.
type ArkProvider struct {
	client      *ark.LLMClient
	temperature float64
}

func NewArkProvider(client *ark.LLMClient, temperature float64) *ArkProvider {
	return &ArkProvider{client: client, temperature: temperature}
}

func (p *ArkProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.client.Complete(ctx, prompt, p.temperature)
}

// NewLLMProvider builds the LLM provider for the configured backend.
// temperature is the per-operation sampling temperature; the vocabulary
// and dialogue stages use different ones.
func NewLLMProvider(ctx context.Context, cfg *config.AIConfig, temperature float64) (dialogtools.LLMProvider, error) {
	if cfg.Provider == "ark" {
		client, err := ark.NewLLMClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("create ark client: %w", err)
		}
		return NewArkProvider(client, temperature), nil
	}

	chatModel, err := component.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return NewEinoProvider(chatModel, temperature), nil
}
