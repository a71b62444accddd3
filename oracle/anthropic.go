package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures the Anthropic Messages API provider.
type AnthropicConfig struct {
	Model   string
	APIKey  string
	BaseURL string
}

// AnthropicOracle sends prompts through the Anthropic Messages API.
type AnthropicOracle struct {
	client  anthropic.Client
	modelID string
}

// NewAnthropic creates an Anthropic-backed oracle.
func NewAnthropic(config AnthropicConfig) (*AnthropicOracle, error) {
	apiKey := strings.TrimSpace(config.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for the anthropic provider")
	}
	if strings.TrimSpace(config.Model) == "" {
		return nil, fmt.Errorf("model is required for the anthropic provider")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicOracle{
		client:  anthropic.NewClient(opts...),
		modelID: config.Model,
	}, nil
}

// Complete implements Oracle.
func (o *AnthropicOracle) Complete(ctx context.Context, req Request) (string, error) {
	text, _, err := o.completeWithUsage(ctx, req)
	return text, err
}

func (o *AnthropicOracle) completeWithUsage(ctx context.Context, req Request) (string, Usage, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(o.modelID),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}

	message, err := o.client.Messages.New(ctx, params)
	if err != nil {
		return "", Usage{}, fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	usage := Usage{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
	}
	return sb.String(), usage, nil
}
