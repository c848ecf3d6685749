package output

import (
	"context"

	"search-agent/internal/domain/entity"
)

// AgentPort is one invocation of an opaque agent. A returned error aborts the
// caller; an invalid result means the attempt produced no usable answer.
type AgentPort interface {
	Invoke(ctx context.Context, query string) (entity.AgentResult, error)
}
