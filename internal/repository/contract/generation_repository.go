package contract

import (
	"context"

	"jewel-backoffice-be/internal/entity"
	"jewel-backoffice-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GenerationBatchRepository interface {
	Create(ctx context.Context, batch *entity.GenerationBatch) error
	Update(ctx context.Context, batch *entity.GenerationBatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationBatch, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationBatch, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type GenerationItemRepository interface {
	Create(ctx context.Context, item *entity.GenerationItem) error
	CreateBatch(ctx context.Context, items []*entity.GenerationItem) error
	Update(ctx context.Context, item *entity.GenerationItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
