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

type GenerationBatchRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenerationMapper
}

func NewGenerationBatchRepository(db *gorm.DB) contract.GenerationBatchRepository {
	return &GenerationBatchRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenerationMapper(),
	}
}

func (r *GenerationBatchRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GenerationBatchRepositoryImpl) Create(ctx context.Context, batch *entity.GenerationBatch) error {
	m := r.mapper.BatchToModel(batch)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*batch = *r.mapper.BatchToEntity(m)
	return nil
}

func (r *GenerationBatchRepositoryImpl) Update(ctx context.Context, batch *entity.GenerationBatch) error {
	m := r.mapper.BatchToModel(batch)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*batch = *r.mapper.BatchToEntity(m)
	return nil
}

func (r *GenerationBatchRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.GenerationBatch{}, id).Error
}

func (r *GenerationBatchRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationBatch, error) {
	var m model.GenerationBatch
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.BatchToEntity(&m), nil
}

func (r *GenerationBatchRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationBatch, error) {
	var models []*model.GenerationBatch
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	batches := make([]*entity.GenerationBatch, 0, len(models))
	for _, m := range models {
		batches = append(batches, r.mapper.BatchToEntity(m))
	}
	return batches, nil
}

func (r *GenerationBatchRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GenerationBatch{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type GenerationItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenerationMapper
}

func NewGenerationItemRepository(db *gorm.DB) contract.GenerationItemRepository {
	return &GenerationItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenerationMapper(),
	}
}

func (r *GenerationItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GenerationItemRepositoryImpl) Create(ctx context.Context, item *entity.GenerationItem) error {
	m := r.mapper.ItemToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ItemToEntity(m)
	return nil
}

func (r *GenerationItemRepositoryImpl) CreateBatch(ctx context.Context, items []*entity.GenerationItem) error {
	if len(items) == 0 {
		return nil
	}
	models := make([]*model.GenerationItem, 0, len(items))
	for _, item := range items {
		models = append(models, r.mapper.ItemToModel(item))
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*items[i] = *r.mapper.ItemToEntity(m)
	}
	return nil
}

func (r *GenerationItemRepositoryImpl) Update(ctx context.Context, item *entity.GenerationItem) error {
	m := r.mapper.ItemToModel(item)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ItemToEntity(m)
	return nil
}

func (r *GenerationItemRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.GenerationItem{}, id).Error
}

func (r *GenerationItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenerationItem, error) {
	var m model.GenerationItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ItemToEntity(&m), nil
}

func (r *GenerationItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenerationItem, error) {
	var models []*model.GenerationItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]*entity.GenerationItem, 0, len(models))
	for _, m := range models {
		items = append(items, r.mapper.ItemToEntity(m))
	}
	return items, nil
}

func (r *GenerationItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.GenerationItem{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
