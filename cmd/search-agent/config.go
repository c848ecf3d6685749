package main

import (
	"search-agent/internal/application/port/output"
	"search-agent/internal/di"
	"search-agent/internal/domain/entity"
	"search-agent/internal/infrastructure/llm"
	"search-agent/internal/infrastructure/search"
	"search-agent/internal/usecase/runner"
)

// loadConfig assembles the container configuration from the environment.
func loadConfig(env output.ConfigPort) di.Config {
	cfg := di.DefaultConfig()

	cfg.Logger.Level = env.GetWithDefault("LOG_LEVEL", cfg.Logger.Level)
	cfg.Logger.Development = env.GetBool("LOG_DEV", false)
	cfg.Logger.Dir = env.Get("LOG_DIR")

	provider := env.GetWithDefault("LLM_PROVIDER", llm.ProviderOllama)
	cfg.LLM = llm.Config{
		Provider:    provider,
		Model:       env.Get("LLM_MODEL"),
		BaseURL:     env.Get("LLM_BASE_URL"),
		APIKey:      llmAPIKey(env, provider),
		Temperature: env.GetFloat("LLM_TEMPERATURE", cfg.LLM.Temperature),
		MaxTokens:   env.GetInt("LLM_MAX_TOKENS", cfg.LLM.MaxTokens),
	}

	cfg.Search = search.Config{
		Provider:     env.GetWithDefault("SEARCH_PROVIDER", cfg.Search.Provider),
		MaxResults:   env.GetInt("SEARCH_MAX_RESULTS", cfg.Search.MaxResults),
		GoogleAPIKey: env.Get("GOOGLE_API_KEY"),
		GoogleCSEID:  env.Get("GOOGLE_CSE_ID"),
		SerperAPIKey: env.Get("SERPER_API_KEY"),
		Browser: search.BrowserConfig{
			Headless:  env.GetBool("BROWSER_HEADLESS", true),
			NoSandbox: env.GetBool("BROWSER_NO_SANDBOX", false),
			Bin:       env.Get("BROWSER_BIN"),
			Timeout:   env.GetDuration("BROWSER_TIMEOUT", search.DefaultBrowserConfig().Timeout),
		},
	}
	cfg.SearchRPS = env.GetFloat("SEARCH_RPS", cfg.SearchRPS)

	cfg.Agent = di.AgentConfig{
		Shape:    entity.AgentShape(env.GetWithDefault("AGENT_SHAPE", string(entity.AgentShapeExecutor))),
		MaxSteps: env.GetInt("AGENT_MAX_STEPS", 0),
	}

	cfg.Runner = runner.Config{
		MaxIterations:    env.GetInt("MAX_ITERATIONS", runner.DefaultMaxIterations),
		MaxExecutionTime: env.GetDuration("MAX_EXECUTION_TIME", runner.DefaultMaxExecutionTime),
	}
	return cfg
}

// llmAPIKey prefers LLM_API_KEY and falls back to the provider's usual
// variable.
func llmAPIKey(env output.ConfigPort, provider string) string {
	if key := env.Get("LLM_API_KEY"); key != "" {
		return key
	}
	switch provider {
	case llm.ProviderOpenRouter:
		return env.Get("OPENROUTER_API_KEY")
	case llm.ProviderHuggingFace:
		return env.Get("HUGGINGFACEHUB_API_TOKEN")
	case llm.ProviderOpenAI:
		return env.Get("OPENAI_API_KEY")
	}
	return ""
}
