package implementation

import (
	"context"
	"errors"

	"jewel-backoffice-be/internal/entity"
	"jewel-backoffice-be/internal/mapper"
	"jewel-backoffice-be/internal/model"
	"jewel-backoffice-be/internal/repository/contract"
	"jewel-backoffice-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewCartRepository(db *gorm.DB) contract.CartRepository {
	return &CartRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *CartRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CartRepositoryImpl) Create(ctx context.Context, cart *entity.Cart) error {
	m := r.mapper.CartToModel(cart)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*cart = *r.mapper.CartToEntity(m)
	return nil
}

func (r *CartRepositoryImpl) Update(ctx context.Context, cart *entity.Cart) error {
	m := r.mapper.CartToModel(cart)
	if err := r.db.WithContext(ctx).Omit("Items").Save(m).Error; err != nil {
		return err
	}
	*cart = *r.mapper.CartToEntity(m)
	return nil
}

func (r *CartRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Cart{}, id).Error
}

func (r *CartRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Cart, error) {
	var m model.Cart
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Items"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CartToEntity(&m), nil
}

func (r *CartRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Cart, error) {
	var models []*model.Cart
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Items"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	carts := make([]*entity.Cart, 0, len(models))
	for _, m := range models {
		carts = append(carts, r.mapper.CartToEntity(m))
	}
	return carts, nil
}

func (r *CartRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Cart{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReplaceItems swaps the full item set of a cart in one transaction.
func (r *CartRepositoryImpl) ReplaceItems(ctx context.Context, cartId uuid.UUID, items []entity.CartItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartId).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		models := make([]*model.CartItem, 0, len(items))
		for i := range items {
			m := r.mapper.ItemToModel(&items[i])
			m.CartId = cartId
			models = append(models, m)
		}
		return tx.Create(&models).Error
	})
}

type InvoiceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewInvoiceRepository(db *gorm.DB) contract.InvoiceRepository {
	return &InvoiceRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *InvoiceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *InvoiceRepositoryImpl) Create(ctx context.Context, invoice *entity.Invoice) error {
	m := r.mapper.InvoiceToModel(invoice)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*invoice = *r.mapper.InvoiceToEntity(m)
	return nil
}

func (r *InvoiceRepositoryImpl) Update(ctx context.Context, invoice *entity.Invoice) error {
	m := r.mapper.InvoiceToModel(invoice)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*invoice = *r.mapper.InvoiceToEntity(m)
	return nil
}

func (r *InvoiceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Invoice, error) {
	var m model.Invoice
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.InvoiceToEntity(&m), nil
}

func (r *InvoiceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Invoice, error) {
	var models []*model.Invoice
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	invoices := make([]*entity.Invoice, 0, len(models))
	for _, m := range models {
		invoices = append(invoices, r.mapper.InvoiceToEntity(m))
	}
	return invoices, nil
}

func (r *InvoiceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Invoice{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextSequence returns the next invoice number ordinal within a year.
func (r *InvoiceRepositoryImpl) NextSequence(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("EXTRACT(YEAR FROM created_at) = ?", year).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}
