package output

import (
	"context"

	"search-agent/internal/domain/entity"
)

type OutcomePresenter interface {
	ShowProcessing(ctx context.Context, query string)
	ShowOutcome(ctx context.Context, outcome entity.Outcome)
}

// StepObserver follows the agent's tool calls while a query runs.
type StepObserver interface {
	ShowToolStart(ctx context.Context, toolName, input string)
	ShowToolResult(ctx context.Context, result string, isError bool)
}
