package entity

import (
	"time"

	"github.com/google/uuid"
)

type BatchStatus string
type ItemStatus string

const (
	BatchStatusQueued    BatchStatus = "queued"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"

	ItemStatusPending   ItemStatus = "pending"
	ItemStatusRunning   ItemStatus = "running"
	ItemStatusCompleted ItemStatus = "completed"
	// ItemStatusSalvaged marks items whose pipeline hit the retry
	// ceiling but still produced content from partial results.
	ItemStatusSalvaged ItemStatus = "salvaged"
	ItemStatusFailed   ItemStatus = "failed"
)

// GenerationBatch is one uploaded product sheet moving through the
// content pipeline.
type GenerationBatch struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	SourceFile  string
	Status      BatchStatus
	TotalItems  int
	Succeeded   int
	Failed      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// GenerationItem is a single product row plus whatever the pipeline
// produced for it.
type GenerationItem struct {
	Id         uuid.UUID
	BatchId    uuid.UUID
	SKU        string
	Row        map[string]interface{}
	Status     ItemStatus
	Generated  map[string]interface{}
	UsedName   string
	ImageURL   string
	RetryCount int
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
