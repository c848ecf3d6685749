package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"search-agent/internal/application/port/input"
	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"
)

var _ input.QueryRunner = (*UseCase)(nil)

const (
	DefaultMaxIterations    = 7
	DefaultMaxExecutionTime = 60 * time.Second
)

type Config struct {
	MaxIterations    int
	MaxExecutionTime time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxIterations:    DefaultMaxIterations,
		MaxExecutionTime: DefaultMaxExecutionTime,
	}
}

// UseCase drives an agent until it yields a usable answer, fails, runs out of
// attempts or exceeds the wall-clock budget.
type UseCase struct {
	agent            output.AgentPort
	logger           output.LoggerPort
	maxIterations    int
	maxExecutionTime time.Duration
}

func New(agent output.AgentPort, logger output.LoggerPort, cfg Config) *UseCase {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.MaxExecutionTime <= 0 {
		cfg.MaxExecutionTime = DefaultMaxExecutionTime
	}
	return &UseCase{
		agent:            agent,
		logger:           logger,
		maxIterations:    cfg.MaxIterations,
		maxExecutionTime: cfg.MaxExecutionTime,
	}
}

func (uc *UseCase) Run(ctx context.Context, query string) entity.Outcome {
	start := time.Now()

	q, err := entity.NormalizeQuery(query)
	if err != nil {
		uc.logger.Warn("Query rejected", "error", err)
		return entity.Rejected()
	}

	ctx, cancel := context.WithTimeout(ctx, uc.maxExecutionTime)
	defer cancel()

	outcome := uc.loop(ctx, q)
	outcome.Elapsed = time.Since(start)

	switch outcome.Kind {
	case entity.OutcomeSuccess:
		uc.logger.Info("Query completed", "attempts", outcome.Attempts, "elapsed", outcome.Elapsed)
	case entity.OutcomeNoValidResponse:
		uc.logger.Warn("No valid response", "attempts", outcome.Attempts, "elapsed", outcome.Elapsed)
	default:
		uc.logger.Error("Query failed", "attempts", outcome.Attempts, "error", outcome.Message)
	}
	return outcome
}

func (uc *UseCase) loop(ctx context.Context, query string) entity.Outcome {
	var lastOutput string
	found := false
	attempts := 0

	for attempts < uc.maxIterations {
		// Only dispatched calls count as attempts.
		if err := ctx.Err(); err != nil {
			return entity.Failure(describe(ctx, err), attempts)
		}
		attempts++
		uc.logger.Debug("Invoking agent", "attempt", attempts, "maxIterations", uc.maxIterations)

		result, err := uc.invoke(ctx, query)
		if err != nil {
			return entity.Failure(describe(ctx, err), attempts)
		}
		if result.Valid() {
			lastOutput = result.Output
			found = true
			break
		}

		uc.logger.Debug("Agent returned no valid output", "attempt", attempts)
	}

	if !found {
		return entity.NoValidResponse(attempts)
	}
	return entity.Success(lastOutput, attempts)
}

type invocation struct {
	result entity.AgentResult
	err    error
}

// invoke runs one agent call off the caller's goroutine so the budget can fire
// even when the agent ignores ctx. An abandoned call finishes into a buffered
// channel nobody reads.
func (uc *UseCase) invoke(ctx context.Context, query string) (entity.AgentResult, error) {
	done := make(chan invocation, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- invocation{err: fmt.Errorf("agent panicked: %v", r)}
			}
		}()
		res, err := uc.agent.Invoke(ctx, query)
		done <- invocation{result: res, err: err}
	}()

	select {
	case inv := <-done:
		return inv.result, inv.err
	case <-ctx.Done():
		return entity.AgentResult{}, ctx.Err()
	}
}

func describe(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return entity.MessageTimeout
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		return entity.MessageCanceled
	default:
		return err.Error()
	}
}
