package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByBatchId struct {
	BatchId uuid.UUID
}

func (s ByBatchId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("batch_id = ?", s.BatchId)
}

type ByBatchStatus struct {
	Status string
}

func (s ByBatchStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type BySKU struct {
	SKU string
}

func (s BySKU) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("sku = ?", s.SKU)
}
