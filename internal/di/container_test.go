package di

import (
	"context"
	"sync"
	"testing"
	"time"

	"search-agent/internal/domain/entity"
	"search-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type scriptedModel struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (m *scriptedModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	m.calls++
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.responses[i]}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

type stubProvider struct {
	queries []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Search(_ context.Context, query string) ([]entity.SearchResult, error) {
	p.queries = append(p.queries, query)
	return []entity.SearchResult{{
		Title:   "Paris - Wikipedia",
		URL:     "https://en.wikipedia.org/wiki/Paris",
		Snippet: "Paris is the capital of France.",
	}}, nil
}

func TestContainer_AnswersQueryEndToEnd(t *testing.T) {
	model := &scriptedModel{responses: []string{
		"Thought: I should search.\nAction: stub-search\nAction Input: capital of France",
		"Thought: I now know the final answer.\nFinal Answer: Paris",
	}}
	provider := &stubProvider{}

	cfg := DefaultConfig()
	cfg.SearchRPS = 0
	cfg.Runner.MaxExecutionTime = 5 * time.Second

	c, err := NewContainerWith(cfg, logger.NewNop(), model, provider)
	require.NoError(t, err)

	outcome := c.Runner.Run(context.Background(), "What is the capital of France?")

	assert.Equal(t, entity.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "Paris", outcome.Text)
	assert.Equal(t, 1, outcome.Attempts)
	assert.Equal(t, []string{"capital of France"}, provider.queries)

	_, ok := c.Tools.Get("stub-search")
	assert.True(t, ok)
}

func TestContainer_RunShapeRetriesUntilStepsProduceAnswer(t *testing.T) {
	model := &scriptedModel{responses: []string{"I am not sure."}}

	cfg := DefaultConfig()
	cfg.SearchRPS = 0
	cfg.Agent = AgentConfig{Shape: entity.AgentShapeRun, MaxSteps: 1}
	cfg.Runner.MaxIterations = 2

	c, err := NewContainerWith(cfg, logger.NewNop(), model, &stubProvider{})
	require.NoError(t, err)

	outcome := c.Runner.Run(context.Background(), "q")
	assert.Equal(t, entity.OutcomeNoValidResponse, outcome.Kind)
	assert.Equal(t, 2, outcome.Attempts)
}

func TestNewContainer_Defaults(t *testing.T) {
	c, err := NewContainer(DefaultConfig())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "duckduckgo", c.Search.Name())
	_, ok := c.Tools.Get(entity.ToolDuckDuckGoSearch)
	assert.True(t, ok)
}

func TestNewContainer_BadSearchProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Provider = "serper"

	_, err := NewContainer(cfg)
	assert.ErrorContains(t, err, "search provider")
}
