package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"search-agent/internal/domain/entity"
	"search-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	calls   atomic.Int32
	results []map[string]any
	errs    []error
	block   time.Duration
	panics  bool
}

func (s *stubAgent) Invoke(ctx context.Context, query string) (entity.AgentResult, error) {
	n := int(s.calls.Add(1)) - 1

	if s.panics {
		panic("boom")
	}
	if s.block > 0 {
		time.Sleep(s.block)
	}
	if n < len(s.errs) && s.errs[n] != nil {
		return entity.AgentResult{}, s.errs[n]
	}
	if n < len(s.results) {
		return entity.ResultFromMap(s.results[n]), nil
	}
	return entity.AgentResult{}, nil
}

func newUseCase(agent *stubAgent, maxIterations int) *UseCase {
	return New(agent, logger.NewNop(), Config{MaxIterations: maxIterations, MaxExecutionTime: 2 * time.Second})
}

func TestRun_WhitespaceQueryNeverInvokesAgent(t *testing.T) {
	for _, q := range []string{"", " ", "\t\n  "} {
		agent := &stubAgent{}
		outcome := newUseCase(agent, 3).Run(context.Background(), q)

		assert.Equal(t, entity.OutcomeRejected, outcome.Kind)
		assert.Equal(t, entity.MessageEmptyQuery, outcome.UserMessage())
		assert.Equal(t, int32(0), agent.calls.Load())
	}
}

func TestRun_FirstCallSucceeds(t *testing.T) {
	agent := &stubAgent{results: []map[string]any{{"output": "Paris"}}}

	outcome := newUseCase(agent, 5).Run(context.Background(), "capital of France?")

	assert.Equal(t, entity.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "Paris", outcome.Text)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, int32(1), agent.calls.Load())
}

func TestRun_SucceedsAfterEmptyAttempts(t *testing.T) {
	agent := &stubAgent{results: []map[string]any{{}, {}, {"output": "Paris"}}}

	outcome := newUseCase(agent, 3).Run(context.Background(), "capital of France?")

	assert.Equal(t, entity.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "Paris", outcome.Text)
	assert.Equal(t, int32(3), agent.calls.Load())
}

func TestRun_EmptyOutputValueIsRetried(t *testing.T) {
	agent := &stubAgent{results: []map[string]any{{"output": ""}, {"output": 42}, {"output": "ok"}}}

	outcome := newUseCase(agent, 5).Run(context.Background(), "q")

	assert.True(t, outcome.IsSuccess())
	assert.Equal(t, 3, outcome.Attempts)
}

func TestRun_ExhaustsIterations(t *testing.T) {
	agent := &stubAgent{results: []map[string]any{{}, {}}}

	outcome := newUseCase(agent, 2).Run(context.Background(), "q")

	assert.Equal(t, entity.OutcomeNoValidResponse, outcome.Kind)
	assert.Equal(t, entity.MessageNoValidResponse, outcome.UserMessage())
	assert.Equal(t, int32(2), agent.calls.Load())
}

func TestRun_ErrorAbortsWithoutRetry(t *testing.T) {
	agent := &stubAgent{errs: []error{errors.New("ConnectionRefused")}}

	outcome := newUseCase(agent, 5).Run(context.Background(), "q")

	assert.Equal(t, entity.OutcomeError, outcome.Kind)
	assert.Equal(t, "ConnectionRefused", outcome.Message)
	assert.Equal(t, "An error occurred: ConnectionRefused", outcome.UserMessage())
	assert.Equal(t, int32(1), agent.calls.Load())
}

func TestRun_ErrorAfterEmptyAttempt(t *testing.T) {
	agent := &stubAgent{
		results: []map[string]any{{}},
		errs:    []error{nil, errors.New("search quota exceeded")},
	}

	outcome := newUseCase(agent, 5).Run(context.Background(), "q")

	assert.Equal(t, entity.OutcomeError, outcome.Kind)
	assert.Equal(t, 2, outcome.Attempts)
}

func TestRun_TimeoutAbandonsBlockedCall(t *testing.T) {
	agent := &stubAgent{block: time.Second, results: []map[string]any{{"output": "late"}}}
	uc := New(agent, logger.NewNop(), Config{MaxIterations: 3, MaxExecutionTime: 50 * time.Millisecond})

	start := time.Now()
	outcome := uc.Run(context.Background(), "q")

	assert.Equal(t, entity.OutcomeError, outcome.Kind)
	assert.Equal(t, entity.MessageTimeout, outcome.Message)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRun_CanceledParent(t *testing.T) {
	agent := &stubAgent{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := newUseCase(agent, 3).Run(ctx, "q")

	assert.Equal(t, entity.OutcomeError, outcome.Kind)
	assert.Equal(t, entity.MessageCanceled, outcome.Message)
	assert.Equal(t, int32(0), agent.calls.Load())
	assert.Equal(t, 0, outcome.Attempts)
}

func TestRun_PanicBecomesError(t *testing.T) {
	agent := &stubAgent{panics: true}

	outcome := newUseCase(agent, 3).Run(context.Background(), "q")

	require.Equal(t, entity.OutcomeError, outcome.Kind)
	assert.Contains(t, outcome.Message, "boom")
	assert.Equal(t, int32(1), agent.calls.Load())
}

func TestNew_Defaults(t *testing.T) {
	uc := New(&stubAgent{}, logger.NewNop(), Config{})

	assert.Equal(t, DefaultMaxIterations, uc.maxIterations)
	assert.Equal(t, DefaultMaxExecutionTime, uc.maxExecutionTime)
}
