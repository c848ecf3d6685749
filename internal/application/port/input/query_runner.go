package input

import (
	"context"

	"search-agent/internal/domain/entity"
)

type QueryRunner interface {
	Run(ctx context.Context, query string) entity.Outcome
}
