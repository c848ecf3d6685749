package tool

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"

	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/tools"
	"golang.org/x/time/rate"
)

var _ tools.Tool = (*SearchTool)(nil)

const (
	defaultMaxResults = 5
	maxSnippetLen     = 500
	noResultsMessage  = "No good search result was found"
)

type SearchToolConfig struct {
	Name        entity.ToolName
	Description string
	MaxResults  int
	// RequestsPerSecond paces calls to the provider; zero disables pacing.
	RequestsPerSecond float64
	CallbacksHandler  callbacks.Handler
}

// SearchTool exposes a search provider to the agent as a single named tool.
type SearchTool struct {
	name        entity.ToolName
	description string
	provider    output.SearchProvider
	limiter     *rate.Limiter
	maxResults  int
	logger      output.LoggerPort
	handler     callbacks.Handler
}

func NewSearchTool(provider output.SearchProvider, logger output.LoggerPort, cfg SearchToolConfig) *SearchTool {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.Name == "" {
		cfg.Name = entity.ToolName(provider.Name() + "-search")
	}
	if cfg.Description == "" {
		cfg.Description = "Search the web for recent results. Input should be a search query."
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &SearchTool{
		name:        cfg.Name,
		description: cfg.Description,
		provider:    provider,
		limiter:     limiter,
		maxResults:  cfg.MaxResults,
		logger:      logger,
		handler:     cfg.CallbacksHandler,
	}
}

func (t *SearchTool) Name() string {
	return t.name.String()
}

func (t *SearchTool) Description() string {
	return t.description
}

func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	if t.handler != nil {
		t.handler.HandleToolStart(ctx, input)
	}

	out, err := t.search(ctx, input)
	if t.handler != nil {
		if err != nil {
			t.handler.HandleToolError(ctx, err)
		} else {
			t.handler.HandleToolEnd(ctx, out)
		}
	}
	return out, err
}

func (t *SearchTool) search(ctx context.Context, input string) (string, error) {
	query := cleanInput(input)
	if query == "" {
		return "The search query was empty. Provide the text to search for.", nil
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("search rate limit wait: %w", err)
		}
	}

	t.logger.Info("Searching", "tool", t.name, "provider", t.provider.Name(), "query", query)

	results, err := t.provider.Search(ctx, query)
	if err != nil {
		t.logger.Error("Search failed", "tool", t.name, "error", err)
		return "", fmt.Errorf("%s: %w", t.name, err)
	}

	t.logger.Debug("Search completed", "tool", t.name, "results", len(results))
	return formatResults(results, t.maxResults), nil
}

// cleanInput strips the quoting and trailing noise ReAct models tend to add
// around the action input.
func cleanInput(input string) string {
	s := strings.TrimSpace(input)
	if i := strings.Index(s, "\nObservation"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'` \n\t")
	return strings.TrimSpace(s)
}

func formatResults(results []entity.SearchResult, limit int) string {
	if len(results) == 0 {
		return noResultsMessage
	}

	var sb strings.Builder
	for i, r := range results {
		if i >= limit {
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, strings.TrimSpace(r.Title))
		if r.URL != "" {
			fmt.Fprintf(&sb, "   %s\n", r.URL)
		}
		if snippet := strings.TrimSpace(r.Snippet); snippet != "" {
			if len(snippet) > maxSnippetLen {
				snippet = cutRunes(snippet, maxSnippetLen) + "..."
			}
			fmt.Fprintf(&sb, "   %s\n", snippet)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// cutRunes shortens s to at most n bytes without splitting a UTF-8 sequence.
func cutRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
