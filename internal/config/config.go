package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Oracle      OracleConfig      `mapstructure:"oracle"`
	Recommender RecommenderConfig `mapstructure:"recommender"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig is optional; an empty URL keeps the catalog in memory.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// CatalogConfig points at an optional YAML catalog replacing the built-in
// one.
type CatalogConfig struct {
	File string `mapstructure:"file"`
}

type OracleConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type RecommenderConfig struct {
	MaxInFlight   int64         `mapstructure:"max_in_flight"`
	QueueTimeout  time.Duration `mapstructure:"queue_timeout"`
	TopCandidates int           `mapstructure:"top_candidates"`
}

const (
	defaultOpenAIModel    = "gpt-3.5-turbo"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
)

// Load reads defaults, then the YAML file at path (or CONFIG_FILE when path
// is empty), then environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Oracle.Provider = strings.ToLower(strings.TrimSpace(cfg.Oracle.Provider))
	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = providerAPIKey(cfg.Oracle.Provider)
	}
	if strings.TrimSpace(cfg.Oracle.Model) == "" {
		cfg.Oracle.Model = defaultModel(cfg.Oracle.Provider)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)

	v.SetDefault("oracle.provider", "openai")
	v.SetDefault("oracle.timeout", 30*time.Second)

	v.SetDefault("recommender.max_in_flight", 32)
	v.SetDefault("recommender.queue_timeout", 5*time.Second)
	v.SetDefault("recommender.top_candidates", 5)
}

func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":                {"PORT"},
		"server.read_timeout":        {"SERVER_READ_TIMEOUT"},
		"server.write_timeout":       {"SERVER_WRITE_TIMEOUT"},
		"database.url":               {"DATABASE_URL"},
		"catalog.file":               {"CATALOG_FILE"},
		"oracle.provider":            {"ORACLE_PROVIDER"},
		"oracle.model":               {"ORACLE_MODEL"},
		"oracle.api_key":             {"ORACLE_API_KEY"},
		"oracle.base_url":            {"ORACLE_BASE_URL"},
		"oracle.timeout":             {"ORACLE_TIMEOUT"},
		"recommender.max_in_flight":  {"MAX_IN_FLIGHT"},
		"recommender.queue_timeout":  {"QUEUE_TIMEOUT"},
		"recommender.top_candidates": {"TOP_CANDIDATES"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == "anthropic" {
		return defaultAnthropicModel
	}
	return defaultOpenAIModel
}

func providerAPIKey(provider string) string {
	switch provider {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

// RequestTimeout is the per-request deadline enforced by the router. It
// stays just under the write timeout so the error body can still be sent.
func (c *Config) RequestTimeout() time.Duration {
	return c.Server.WriteTimeout - time.Second
}

// pipelineBudget is the longest a recommendation can legitimately take:
// the admission wait plus both oracle calls.
func (c *Config) pipelineBudget() time.Duration {
	return c.Recommender.QueueTimeout + 2*c.Oracle.Timeout
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}

	switch c.Oracle.Provider {
	case "openai", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("oracle.provider must be openai or anthropic, got %q", c.Oracle.Provider))
	}
	if strings.TrimSpace(c.Oracle.Model) == "" {
		errs = append(errs, errors.New("oracle.model cannot be empty"))
	}
	if strings.TrimSpace(c.Oracle.APIKey) == "" {
		errs = append(errs, errors.New("an API key is required (OPENAI_API_KEY or ANTHROPIC_API_KEY)"))
	}
	if c.Oracle.Timeout <= 0 {
		errs = append(errs, errors.New("oracle.timeout must be positive"))
	}

	if c.Recommender.MaxInFlight <= 0 {
		errs = append(errs, errors.New("recommender.max_in_flight must be positive"))
	}
	if c.Recommender.QueueTimeout <= 0 {
		errs = append(errs, errors.New("recommender.queue_timeout must be positive"))
	}
	if c.Recommender.TopCandidates <= 0 {
		errs = append(errs, errors.New("recommender.top_candidates must be positive"))
	}

	if c.Server.WriteTimeout > 0 && c.Oracle.Timeout > 0 && c.RequestTimeout() < c.pipelineBudget() {
		errs = append(errs, fmt.Errorf(
			"server.write_timeout %v leaves a request timeout of %v, below queue_timeout + 2*oracle.timeout (%v)",
			c.Server.WriteTimeout, c.RequestTimeout(), c.pipelineBudget()))
	}

	return errors.Join(errs...)
}
