package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoConfig configures an OpenAI-compatible chat model.
type EinoConfig struct {
	Model   string
	APIKey  string
	BaseURL string
}

// EinoOracle sends prompts through an eino chat model.
type EinoOracle struct {
	model model.BaseChatModel
}

// NewEino creates an oracle backed by an OpenAI-compatible endpoint.
func NewEino(ctx context.Context, config EinoConfig) (*EinoOracle, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for the openai provider")
	}

	cfg := &openai.ChatModelConfig{
		Model:  config.Model,
		APIKey: apiKey,
	}
	if config.BaseURL != "" {
		cfg.BaseURL = config.BaseURL
	}

	chat, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating openai chat model: %w", err)
	}
	return &EinoOracle{model: chat}, nil
}

// NewEinoWithModel wraps an existing eino chat model.
func NewEinoWithModel(m model.BaseChatModel) *EinoOracle {
	return &EinoOracle{model: m}
}

// Complete implements Oracle.
func (o *EinoOracle) Complete(ctx context.Context, req Request) (string, error) {
	text, _, err := o.completeWithUsage(ctx, req)
	return text, err
}

func (o *EinoOracle) completeWithUsage(ctx context.Context, req Request) (string, Usage, error) {
	messages := []*schema.Message{schema.UserMessage(req.Prompt)}

	opts := []model.Option{model.WithTemperature(float32(req.Temperature))}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	response, err := o.model.Generate(ctx, messages, opts...)
	if err != nil {
		return "", Usage{}, fmt.Errorf("LLM generate: %w", err)
	}
	if response == nil {
		return "", Usage{}, nil
	}

	var usage Usage
	if response.ResponseMeta != nil && response.ResponseMeta.Usage != nil {
		usage.PromptTokens = response.ResponseMeta.Usage.PromptTokens
		usage.CompletionTokens = response.ResponseMeta.Usage.CompletionTokens
	}
	return response.Content, usage, nil
}
