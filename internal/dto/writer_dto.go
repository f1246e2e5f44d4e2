package dto

import (
	"time"

	"github.com/google/uuid"
)

// StartBatchRequest carries the parsed product rows to run through the
// content pipeline. Each row keeps its source column names.
type StartBatchRequest struct {
	SourceFile string                   `json:"source_file" validate:"required"`
	Rows       []map[string]interface{} `json:"rows" validate:"required,min=1"`
}

type StartBatchResponse struct {
	BatchId    uuid.UUID `json:"batch_id"`
	TotalItems int       `json:"total_items"`
	Status     string    `json:"status"`
}

type BatchStatusResponse struct {
	BatchId     uuid.UUID  `json:"batch_id"`
	SourceFile  string     `json:"source_file"`
	Status      string     `json:"status"`
	TotalItems  int        `json:"total_items"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ItemResponse struct {
	Id         uuid.UUID              `json:"id"`
	SKU        string                 `json:"sku"`
	Status     string                 `json:"status"`
	Generated  map[string]interface{} `json:"generated,omitempty"`
	UsedName   string                 `json:"used_name,omitempty"`
	ImageURL   string                 `json:"image_url,omitempty"`
	RetryCount int                    `json:"retry_count"`
	Error      string                 `json:"error,omitempty"`
}

type BatchDetailResponse struct {
	Batch BatchStatusResponse `json:"batch"`
	Items []ItemResponse      `json:"items"`
}

type RetryItemRequest struct {
	ItemId uuid.UUID `json:"item_id" validate:"required"`
}

// GenerateBatchMessage is the queue payload moving a batch (or a single
// retried item) to the background worker.
type GenerateBatchMessage struct {
	BatchId uuid.UUID  `json:"batch_id"`
	ItemId  *uuid.UUID `json:"item_id,omitempty"`
}
