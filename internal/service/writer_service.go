package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/entity"
	"jewel-backoffice-be/internal/repository/memory"
	"jewel-backoffice-be/internal/repository/specification"
	"jewel-backoffice-be/internal/repository/unitofwork"

	"jewel-backoffice-be/pkg/events"
	pktNats "jewel-backoffice-be/pkg/nats"

	"github.com/google/uuid"
)

type IWriterService interface {
	StartBatch(ctx context.Context, userId uuid.UUID, req *dto.StartBatchRequest) (*dto.StartBatchResponse, error)
	BatchStatus(ctx context.Context, batchId uuid.UUID) (*dto.BatchStatusResponse, error)
	BatchDetail(ctx context.Context, batchId uuid.UUID) (*dto.BatchDetailResponse, error)
	ListBatches(ctx context.Context, userId uuid.UUID) ([]*dto.BatchStatusResponse, error)
	RetryItem(ctx context.Context, itemId uuid.UUID) error
}

type writerService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	progress         *memory.ProgressRepository
}

func NewWriterService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	progress *memory.ProgressRepository,
) IWriterService {
	return &writerService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		progress:         progress,
	}
}

func skuOf(row map[string]interface{}) string {
	for _, key := range []string{"SKU", "sku", "Sku", "SKU Code"} {
		if v, ok := row[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func (s *writerService) StartBatch(ctx context.Context, userId uuid.UUID, req *dto.StartBatchRequest) (*dto.StartBatchResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	batch := &entity.GenerationBatch{
		Id:         uuid.New(),
		UserId:     userId,
		SourceFile: req.SourceFile,
		Status:     entity.BatchStatusQueued,
		TotalItems: len(req.Rows),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	items := make([]*entity.GenerationItem, 0, len(req.Rows))
	for _, row := range req.Rows {
		items = append(items, &entity.GenerationItem{
			Id:        uuid.New(),
			BatchId:   batch.Id,
			SKU:       skuOf(row),
			Row:       row,
			Status:    entity.ItemStatusPending,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.GenerationBatchRepository().Create(ctx, batch); err != nil {
		return nil, err
	}
	if err := uow.GenerationItemRepository().CreateBatch(ctx, items); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.GenerateBatchMessage{BatchId: batch.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to queue batch: %w", err)
	}

	if s.eventPublisher != nil {
		evt := events.NewBatchStarted(batch.Id.String(), len(items))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("Warning: failed to publish batch started event: %v\n", err)
		}
	}

	return &dto.StartBatchResponse{
		BatchId:    batch.Id,
		TotalItems: batch.TotalItems,
		Status:     string(batch.Status),
	}, nil
}

func batchStatusOf(batch *entity.GenerationBatch) *dto.BatchStatusResponse {
	return &dto.BatchStatusResponse{
		BatchId:     batch.Id,
		SourceFile:  batch.SourceFile,
		Status:      string(batch.Status),
		TotalItems:  batch.TotalItems,
		Succeeded:   batch.Succeeded,
		Failed:      batch.Failed,
		CreatedAt:   batch.CreatedAt,
		CompletedAt: batch.CompletedAt,
	}
}

func (s *writerService) BatchStatus(ctx context.Context, batchId uuid.UUID) (*dto.BatchStatusResponse, error) {
	// The progress cache is fresher than the database while the worker
	// is mid-batch.
	if update, ok := s.progress.Get(batchId.String()); ok {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		batch, err := uow.GenerationBatchRepository().FindOne(ctx, specification.ByID{ID: batchId})
		if err != nil {
			return nil, err
		}
		if batch == nil {
			return nil, errors.New("batch not found")
		}
		resp := batchStatusOf(batch)
		if batch.Status == entity.BatchStatusRunning {
			resp.Succeeded = update.Succeeded
			resp.Failed = update.Failed
		}
		return resp, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	batch, err := uow.GenerationBatchRepository().FindOne(ctx, specification.ByID{ID: batchId})
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, errors.New("batch not found")
	}
	return batchStatusOf(batch), nil
}

func (s *writerService) BatchDetail(ctx context.Context, batchId uuid.UUID) (*dto.BatchDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	batch, err := uow.GenerationBatchRepository().FindOne(ctx, specification.ByID{ID: batchId})
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, errors.New("batch not found")
	}

	items, err := uow.GenerationItemRepository().FindAll(ctx,
		specification.ByBatchId{BatchId: batchId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.BatchDetailResponse{Batch: *batchStatusOf(batch)}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.ItemResponse{
			Id:         item.Id,
			SKU:        item.SKU,
			Status:     string(item.Status),
			Generated:  item.Generated,
			UsedName:   item.UsedName,
			ImageURL:   item.ImageURL,
			RetryCount: item.RetryCount,
			Error:      item.Error,
		})
	}
	return resp, nil
}

func (s *writerService) ListBatches(ctx context.Context, userId uuid.UUID) ([]*dto.BatchStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	batches, err := uow.GenerationBatchRepository().FindAll(ctx,
		specification.FilterBy{Field: "user_id", Value: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.BatchStatusResponse, 0, len(batches))
	for _, batch := range batches {
		out = append(out, batchStatusOf(batch))
	}
	return out, nil
}

func (s *writerService) RetryItem(ctx context.Context, itemId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.GenerationItemRepository().FindOne(ctx, specification.ByID{ID: itemId})
	if err != nil {
		return err
	}
	if item == nil {
		return errors.New("item not found")
	}
	if item.Status == entity.ItemStatusRunning {
		return errors.New("item is currently running")
	}

	item.Status = entity.ItemStatusPending
	item.Error = ""
	item.UpdatedAt = time.Now()
	if err := uow.GenerationItemRepository().Update(ctx, item); err != nil {
		return err
	}

	payload, err := json.Marshal(dto.GenerateBatchMessage{BatchId: item.BatchId, ItemId: &item.Id})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}
