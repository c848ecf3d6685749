package service

import (
	"sync"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"

	"github.com/tmc/langchaingo/tools"
)

var _ output.ToolRegistry = (*ToolRegistryImpl)(nil)

// ToolRegistryImpl keeps tools in registration order. Registering a name
// twice replaces the earlier tool in place.
type ToolRegistryImpl struct {
	mu    sync.RWMutex
	tools map[entity.ToolName]tools.Tool
	order []entity.ToolName
}

func NewToolRegistry() *ToolRegistryImpl {
	return &ToolRegistryImpl{
		tools: make(map[entity.ToolName]tools.Tool),
	}
}

func (r *ToolRegistryImpl) Register(tool tools.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := entity.ToolName(tool.Name())
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

func (r *ToolRegistryImpl) Get(name entity.ToolName) (tools.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistryImpl) All() []tools.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]tools.Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}
