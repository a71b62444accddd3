package oracle

import (
	"context"
	"fmt"
	"strings"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config selects and configures a provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// New builds the configured provider wrapped in Instrument.
func New(ctx context.Context, config Config, recorder Recorder) (Oracle, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))

	var (
		base Oracle
		err  error
	)
	switch provider {
	case ProviderOpenAI, "":
		provider = ProviderOpenAI
		base, err = NewEino(ctx, EinoConfig{
			Model:   config.Model,
			APIKey:  config.APIKey,
			BaseURL: config.BaseURL,
		})
	case ProviderAnthropic:
		base, err = NewAnthropic(AnthropicConfig{
			Model:   config.Model,
			APIKey:  config.APIKey,
			BaseURL: config.BaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(base, provider, config.Model, recorder), nil
}
