package output

import (
	"context"

	"search-agent/internal/domain/entity"

	"github.com/tmc/langchaingo/tools"
)

type SearchProvider interface {
	Name() string
	Search(ctx context.Context, query string) ([]entity.SearchResult, error)
}

type ToolRegistry interface {
	Register(tool tools.Tool)
	Get(name entity.ToolName) (tools.Tool, bool)
	All() []tools.Tool
}
