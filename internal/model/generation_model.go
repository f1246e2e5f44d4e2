package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GenerationBatch struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	SourceFile  string    `gorm:"type:varchar(255)"`
	Status      string    `gorm:"type:varchar(50);not null;default:'queued';index"`
	TotalItems  int       `gorm:"default:0"`
	Succeeded   int       `gorm:"default:0"`
	Failed      int       `gorm:"default:0"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	CompletedAt *time.Time
}

func (GenerationBatch) TableName() string {
	return "generation_batches"
}

type GenerationItem struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BatchId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	SKU        string            `gorm:"type:varchar(100);index"`
	Row        datatypes.JSONMap `gorm:"type:jsonb"`
	Status     string            `gorm:"type:varchar(50);not null;default:'pending';index"`
	Generated  datatypes.JSONMap `gorm:"type:jsonb"`
	UsedName   string            `gorm:"type:varchar(255)"`
	ImageURL   string            `gorm:"type:text"`
	RetryCount int               `gorm:"default:0"`
	Error      string            `gorm:"type:text"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
}

func (GenerationItem) TableName() string {
	return "generation_items"
}
