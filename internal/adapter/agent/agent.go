package agent

import (
	"context"
	"errors"
	"fmt"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
)

const inputKey = "input"

var (
	_ output.AgentPort = (*ExecutorAgent)(nil)
	_ output.AgentPort = (*RunAgent)(nil)
)

// ExecutorAgent calls the chain with an input mapping and reads the output
// field of the returned mapping.
type ExecutorAgent struct {
	chain chains.Chain
}

func NewExecutorAgent(chain chains.Chain) *ExecutorAgent {
	return &ExecutorAgent{chain: chain}
}

func (a *ExecutorAgent) Invoke(ctx context.Context, query string) (entity.AgentResult, error) {
	values, err := chains.Call(ctx, a.chain, map[string]any{inputKey: query})
	if err != nil {
		if isUnfinished(err) {
			return entity.AgentResult{}, nil
		}
		return entity.AgentResult{}, err
	}
	return entity.ResultFromMap(values), nil
}

// RunAgent runs the chain as a single-input, single-output call returning
// the answer text directly.
type RunAgent struct {
	chain chains.Chain
}

func NewRunAgent(chain chains.Chain) *RunAgent {
	return &RunAgent{chain: chain}
}

func (a *RunAgent) Invoke(ctx context.Context, query string) (entity.AgentResult, error) {
	text, err := chains.Run(ctx, a.chain, query)
	if err != nil {
		if isUnfinished(err) {
			return entity.AgentResult{}, nil
		}
		return entity.AgentResult{}, err
	}
	return entity.ResultFromText(text), nil
}

// isUnfinished reports framework errors meaning the attempt ended without a
// parseable final answer rather than failing.
func isUnfinished(err error) bool {
	return errors.Is(err, agents.ErrNotFinished) || errors.Is(err, agents.ErrUnableToParseOutput)
}

// New wraps chain in the adapter for the requested invocation shape.
func New(shape entity.AgentShape, chain chains.Chain) (output.AgentPort, error) {
	switch shape {
	case entity.AgentShapeExecutor, "":
		return NewExecutorAgent(chain), nil
	case entity.AgentShapeRun:
		return NewRunAgent(chain), nil
	default:
		return nil, fmt.Errorf("unknown agent shape %q", shape)
	}
}
