// Package llm builds the chat model that drives the search agent.
package llm

import (
	"context"
	"fmt"
	"strings"

	"search-agent/internal/application/port/output"
	"search-agent/internal/infrastructure/llm/openrouter"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/huggingface"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	ProviderOllama      = "ollama"
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderOpenRouter  = "openrouter"
)

type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float64
	MaxTokens   int
}

func DefaultConfig() Config {
	return Config{
		Provider:    ProviderOllama,
		Model:       "llama3.2",
		Temperature: 0.7,
		MaxTokens:   512,
	}
}

// DefaultModel is the model used when Config.Model is empty.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderHuggingFace:
		return "HuggingFaceTB/SmolLM2-1.7B-Instruct"
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderOpenRouter:
		return "meta-llama/llama-3.2-3b-instruct"
	default:
		return "llama3.2"
	}
}

func NewModel(cfg Config, logger output.LoggerPort) (llms.Model, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderOllama
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel(provider)
	}

	var (
		base llms.Model
		err  error
	)
	switch provider {
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		base, err = ollama.New(opts...)
	case ProviderHuggingFace:
		opts := []huggingface.Option{huggingface.WithModel(model)}
		if cfg.APIKey != "" {
			opts = append(opts, huggingface.WithToken(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, huggingface.WithURL(cfg.BaseURL))
		}
		base, err = huggingface.New(opts...)
	case ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(model)}
		if cfg.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		base, err = openai.New(opts...)
	case ProviderOpenRouter:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openrouter: api key is required")
		}
		orCfg := openrouter.DefaultConfig(cfg.APIKey, model)
		if cfg.BaseURL != "" {
			orCfg.BaseURL = cfg.BaseURL
		}
		orCfg.Logger = logger
		base = openrouter.NewAdapter(orCfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s model: %w", provider, err)
	}

	if logger != nil {
		logger.Info("LLM ready", "provider", provider, "model", model)
	}

	var defaults []llms.CallOption
	if cfg.Temperature > 0 {
		defaults = append(defaults, llms.WithTemperature(cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		defaults = append(defaults, llms.WithMaxTokens(cfg.MaxTokens))
	}
	return WithDefaults(base, defaults...), nil
}

type defaultsModel struct {
	llms.Model
	defaults []llms.CallOption
}

// WithDefaults applies call options ahead of the per-call ones, so a caller
// can still override any of them.
func WithDefaults(model llms.Model, defaults ...llms.CallOption) llms.Model {
	if len(defaults) == 0 {
		return model
	}
	return &defaultsModel{Model: model, defaults: defaults}
}

func (m *defaultsModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	merged := make([]llms.CallOption, 0, len(m.defaults)+len(options))
	merged = append(merged, m.defaults...)
	merged = append(merged, options...)
	return m.Model.GenerateContent(ctx, messages, merged...)
}

func (m *defaultsModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}
