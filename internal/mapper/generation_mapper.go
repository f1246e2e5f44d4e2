package mapper

import (
	"jewel-backoffice-be/internal/entity"
	"jewel-backoffice-be/internal/model"

	"gorm.io/datatypes"
)

type GenerationMapper struct{}

func NewGenerationMapper() *GenerationMapper {
	return &GenerationMapper{}
}

func (m *GenerationMapper) BatchToEntity(b *model.GenerationBatch) *entity.GenerationBatch {
	if b == nil {
		return nil
	}
	return &entity.GenerationBatch{
		Id:          b.Id,
		UserId:      b.UserId,
		SourceFile:  b.SourceFile,
		Status:      entity.BatchStatus(b.Status),
		TotalItems:  b.TotalItems,
		Succeeded:   b.Succeeded,
		Failed:      b.Failed,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CompletedAt: b.CompletedAt,
	}
}

func (m *GenerationMapper) BatchToModel(b *entity.GenerationBatch) *model.GenerationBatch {
	if b == nil {
		return nil
	}
	return &model.GenerationBatch{
		Id:          b.Id,
		UserId:      b.UserId,
		SourceFile:  b.SourceFile,
		Status:      string(b.Status),
		TotalItems:  b.TotalItems,
		Succeeded:   b.Succeeded,
		Failed:      b.Failed,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CompletedAt: b.CompletedAt,
	}
}

func (m *GenerationMapper) ItemToEntity(i *model.GenerationItem) *entity.GenerationItem {
	if i == nil {
		return nil
	}
	return &entity.GenerationItem{
		Id:         i.Id,
		BatchId:    i.BatchId,
		SKU:        i.SKU,
		Row:        map[string]interface{}(i.Row),
		Status:     entity.ItemStatus(i.Status),
		Generated:  map[string]interface{}(i.Generated),
		UsedName:   i.UsedName,
		ImageURL:   i.ImageURL,
		RetryCount: i.RetryCount,
		Error:      i.Error,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

func (m *GenerationMapper) ItemToModel(i *entity.GenerationItem) *model.GenerationItem {
	if i == nil {
		return nil
	}
	return &model.GenerationItem{
		Id:         i.Id,
		BatchId:    i.BatchId,
		SKU:        i.SKU,
		Row:        datatypes.JSONMap(i.Row),
		Status:     string(i.Status),
		Generated:  datatypes.JSONMap(i.Generated),
		UsedName:   i.UsedName,
		ImageURL:   i.ImageURL,
		RetryCount: i.RetryCount,
		Error:      i.Error,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}
