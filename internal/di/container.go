package di

import (
	"fmt"
	"io"

	"search-agent/internal/adapter/agent"
	"search-agent/internal/adapter/tool"
	"search-agent/internal/application/port/input"
	"search-agent/internal/application/port/output"
	"search-agent/internal/application/service"
	"search-agent/internal/domain/entity"
	"search-agent/internal/infrastructure/llm"
	"search-agent/internal/infrastructure/logger"
	"search-agent/internal/infrastructure/prompts"
	"search-agent/internal/infrastructure/search"
	"search-agent/internal/usecase/runner"

	"github.com/tmc/langchaingo/llms"
)

type Container struct {
	Logger output.LoggerPort
	LLM    llms.Model
	Search output.SearchProvider
	Tools  output.ToolRegistry
	Agent  output.AgentPort
	Runner input.QueryRunner
}

type AgentConfig struct {
	Shape    entity.AgentShape
	MaxSteps int
}

type Config struct {
	Logger logger.Config
	LLM    llm.Config
	Search search.Config
	// SearchRPS paces calls to the search provider.
	SearchRPS float64
	Agent     AgentConfig
	Runner    runner.Config
	// Observer, when set, is shown every tool call the agent makes.
	Observer output.StepObserver
}

func DefaultConfig() Config {
	return Config{
		Logger:    logger.DefaultConfig(),
		LLM:       llm.DefaultConfig(),
		Search:    search.DefaultConfig(),
		SearchRPS: 1,
		Agent:     AgentConfig{Shape: entity.AgentShapeExecutor},
		Runner:    runner.DefaultConfig(),
	}
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{Logger: log}
	if err := c.build(cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWith wires the runner around an already built model and
// provider.
func NewContainerWith(cfg Config, log output.LoggerPort, model llms.Model, provider output.SearchProvider) (*Container, error) {
	c := &Container{Logger: log, LLM: model, Search: provider}
	if err := c.build(cfg); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) build(cfg Config) error {
	if cfg.Agent.MaxSteps <= 0 {
		cfg.Agent.MaxSteps = agent.DefaultMaxSteps
	}

	handler := agent.NewCallbackHandler(c.Logger)
	if cfg.Observer != nil {
		handler.WithObserver(cfg.Observer)
	}

	toolName, description := entity.ToolName(""), ""
	if c.Search == nil {
		provider, name, desc, err := search.NewProvider(cfg.Search)
		if err != nil {
			return fmt.Errorf("failed to create search provider: %w", err)
		}
		c.Search, toolName, description = provider, name, desc
	}

	if c.LLM == nil {
		model, err := llm.NewModel(cfg.LLM, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to create llm: %w", err)
		}
		c.LLM = model
	}

	tools := service.NewToolRegistry()
	tools.Register(tool.NewSearchTool(c.Search, c.Logger, tool.SearchToolConfig{
		Name:              toolName,
		Description:       description,
		MaxResults:        cfg.Search.MaxResults,
		RequestsPerSecond: cfg.SearchRPS,
		CallbacksHandler:  handler,
	}))
	c.Tools = tools

	prefix, err := prompts.GeneratePrefix(prompts.AgentPrefix, tools.All(), cfg.Agent.MaxSteps)
	if err != nil {
		return fmt.Errorf("failed to render prompt prefix: %w", err)
	}

	a, err := agent.Build(c.LLM, tools.All(), agent.Config{
		Shape:        cfg.Agent.Shape,
		MaxSteps:     cfg.Agent.MaxSteps,
		PromptPrefix: prefix,
		Handler:      handler,
	})
	if err != nil {
		return fmt.Errorf("failed to build agent: %w", err)
	}
	c.Agent = a

	c.Runner = runner.New(a, c.Logger, cfg.Runner)
	c.Logger.Info("Container ready",
		"search", c.Search.Name(),
		"shape", cfg.Agent.Shape,
		"maxIterations", cfg.Runner.MaxIterations,
		"maxExecutionTime", cfg.Runner.MaxExecutionTime,
	)
	return nil
}

func (c *Container) Close() {
	if closer, ok := c.Search.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.Logger.Warn("Failed to close search provider", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
