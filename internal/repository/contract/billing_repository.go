package contract

import (
	"context"

	"jewel-backoffice-be/internal/entity"
	"jewel-backoffice-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	Update(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Cart, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Cart, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	ReplaceItems(ctx context.Context, cartId uuid.UUID, items []entity.CartItem) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	NextSequence(ctx context.Context, year int) (int64, error)
}
