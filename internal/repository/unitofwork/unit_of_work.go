package unitofwork

import (
	"context"

	"jewel-backoffice-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	GenerationBatchRepository() contract.GenerationBatchRepository
	GenerationItemRepository() contract.GenerationItemRepository
	CartRepository() contract.CartRepository
	InvoiceRepository() contract.InvoiceRepository
}
