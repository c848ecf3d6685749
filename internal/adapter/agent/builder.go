package agent

import (
	"fmt"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
)

const (
	DefaultMaxSteps     = 7
	parserErrorFeedback = "Invalid or incomplete response. Reply with a Thought and either an Action with Action Input or a Final Answer."
)

type Config struct {
	Shape entity.AgentShape
	// MaxSteps bounds the reasoning steps inside one invocation.
	MaxSteps     int
	PromptPrefix string
	Handler      callbacks.Handler
}

// Build assembles a zero-shot ReAct executor over model and toolset and wraps
// it in the adapter for cfg.Shape.
func Build(model llms.Model, toolset []tools.Tool, cfg Config) (output.AgentPort, error) {
	if model == nil {
		return nil, fmt.Errorf("agent: language model is required")
	}
	if len(toolset) == 0 {
		return nil, fmt.Errorf("agent: at least one tool is required")
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}

	opts := []agents.Option{
		agents.WithMaxIterations(cfg.MaxSteps),
		agents.WithParserErrorHandler(agents.NewParserErrorHandler(func(string) string {
			return parserErrorFeedback
		})),
	}
	if cfg.PromptPrefix != "" {
		opts = append(opts, agents.WithPromptPrefix(cfg.PromptPrefix))
	}
	if cfg.Handler != nil {
		opts = append(opts, agents.WithCallbacksHandler(cfg.Handler))
	}

	oneShot := agents.NewOneShotAgent(model, toolset, opts...)
	executor := agents.NewExecutor(oneShot, opts...)

	return New(cfg.Shape, executor)
}
