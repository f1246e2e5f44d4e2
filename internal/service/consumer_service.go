package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/entity"
	"jewel-backoffice-be/internal/repository/memory"
	"jewel-backoffice-be/internal/repository/specification"
	"jewel-backoffice-be/internal/repository/unitofwork"
	"jewel-backoffice-be/internal/websocket"

	"jewel-backoffice-be/pkg/agent/writer"
	"jewel-backoffice-be/pkg/drive"
	"jewel-backoffice-be/pkg/events"
	pktNats "jewel-backoffice-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	pipeline       *writer.Pipeline
	keywords       []writer.KeywordRow
	hub            *websocket.Hub
	progress       *memory.ProgressRepository
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	pipeline *writer.Pipeline,
	keywordCSVPath string,
	hub *websocket.Hub,
	progress *memory.ProgressRepository,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		pipeline:       pipeline,
		keywords:       loadKeywords(keywordCSVPath),
		hub:            hub,
		progress:       progress,
		eventPublisher: eventPublisher,
	}
}

// loadKeywords reads the search-volume sheet once at startup. A missing
// sheet degrades to keyword-free prompts rather than blocking the worker.
func loadKeywords(path string) []writer.KeywordRow {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("[WARN] Keyword sheet not available at %s: %v", path, err)
		return nil
	}
	defer f.Close()

	rows, err := writer.ParseKeywordCSV(f)
	if err != nil {
		log.Printf("[WARN] Failed to parse keyword sheet %s: %v", path, err)
		return nil
	}
	log.Printf("[INFO] Loaded %d keyword rows from %s", len(rows), path)
	return rows
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.GenerateBatchMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	batch, err := uow.GenerationBatchRepository().FindOne(ctx, specification.ByID{ID: payload.BatchId})
	if err != nil {
		log.Printf("[ERROR] Failed to load batch %s: %v", payload.BatchId, err)
		msg.Nack()
		return
	}
	if batch == nil {
		log.Printf("[ERROR] Batch not found: %s", payload.BatchId)
		msg.Ack()
		return
	}

	specs := []specification.Specification{
		specification.ByBatchId{BatchId: batch.Id},
		specification.FilterBy{Field: "status", Value: string(entity.ItemStatusPending)},
	}
	if payload.ItemId != nil {
		specs = append(specs, specification.ByID{ID: *payload.ItemId})
	}
	items, err := uow.GenerationItemRepository().FindAll(ctx, specs...)
	if err != nil {
		log.Printf("[ERROR] Failed to load items for batch %s: %v", batch.Id, err)
		msg.Nack()
		return
	}
	if len(items) == 0 {
		msg.Ack()
		return
	}

	batch.Status = entity.BatchStatusRunning
	batch.UpdatedAt = time.Now()
	if err := uow.GenerationBatchRepository().Update(ctx, batch); err != nil {
		log.Printf("[ERROR] Failed to mark batch running: %v", err)
		msg.Nack()
		return
	}

	usedNames := cs.collectUsedNames(ctx, uow, batch.Id)

	for _, item := range items {
		cs.runItem(ctx, uow, batch, item, &usedNames)
	}

	cs.finishBatch(ctx, uow, batch)
	msg.Ack()
}

// collectUsedNames gathers names already assigned in this batch so the
// pipeline never repeats one across items.
func (cs *consumerService) collectUsedNames(ctx context.Context, uow unitofwork.UnitOfWork, batchId uuid.UUID) []string {
	done, err := uow.GenerationItemRepository().FindAll(ctx,
		specification.ByBatchId{BatchId: batchId},
		specification.FilterBy{Field: "status", Value: string(entity.ItemStatusCompleted)},
	)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(done))
	for _, item := range done {
		if item.UsedName != "" {
			names = append(names, item.UsedName)
		}
	}
	return names
}

func (cs *consumerService) runItem(ctx context.Context, uow unitofwork.UnitOfWork, batch *entity.GenerationBatch, item *entity.GenerationItem, usedNames *[]string) {
	item.Status = entity.ItemStatusRunning
	item.UpdatedAt = time.Now()
	if err := uow.GenerationItemRepository().Update(ctx, item); err != nil {
		log.Printf("[ERROR] Failed to mark item %s running: %v", item.Id, err)
		return
	}
	cs.broadcast(batch, item, "running", "")

	row := make(writer.ProductRow, len(item.Row))
	for k, v := range item.Row {
		if s, ok := v.(string); ok {
			row[k] = s
		} else {
			row[k] = fmt.Sprintf("%v", v)
		}
	}

	state := cs.pipeline.Run(ctx, row, cs.keywords, *usedNames)

	if state.Err != nil {
		item.Status = entity.ItemStatusFailed
		item.Error = state.Err.Error()
		if len(state.Generated) > 0 {
			item.Status = entity.ItemStatusSalvaged
			item.Generated = state.Generated
		}
		batch.Failed++
	} else {
		item.Status = entity.ItemStatusCompleted
		item.Generated = state.Generated
		batch.Succeeded++
	}
	if title, ok := state.Generated["title"].(string); ok && title != "" {
		name := writer.TrimSetSuffix(title)
		item.UsedName = name
		*usedNames = append(*usedNames, name)
	}
	item.ImageURL = resolveImageURL(state.ImageURL)
	item.RetryCount = state.RetryCount
	item.UpdatedAt = time.Now()

	if err := uow.GenerationItemRepository().Update(ctx, item); err != nil {
		log.Printf("[ERROR] Failed to persist item %s: %v", item.Id, err)
	}

	if item.Status == entity.ItemStatusCompleted {
		cs.publishEvent(ctx, events.NewItemGenerated(batch.Id.String(), item.Id.String(), item.UsedName))
		cs.broadcast(batch, item, string(item.Status), "")
	} else {
		cs.publishEvent(ctx, events.NewItemFailed(batch.Id.String(), item.Id.String(), item.Error))
		cs.broadcast(batch, item, string(item.Status), item.Error)
	}
}

// resolveImageURL rewrites shared Drive links into direct download URLs so
// the generated content carries a usable image reference.
func resolveImageURL(raw string) string {
	if raw == "" || !drive.IsDriveURL(raw) {
		return raw
	}
	id := drive.ExtractFileID(raw)
	if id == "" {
		return raw
	}
	return drive.DirectDownloadURL(id)
}

func (cs *consumerService) finishBatch(ctx context.Context, uow unitofwork.UnitOfWork, batch *entity.GenerationBatch) {
	pending, err := uow.GenerationItemRepository().Count(ctx,
		specification.ByBatchId{BatchId: batch.Id},
		specification.FilterBy{Field: "status", Value: string(entity.ItemStatusPending)},
	)
	if err == nil && pending > 0 {
		// A retry message for this batch is still in flight.
		batch.UpdatedAt = time.Now()
		_ = uow.GenerationBatchRepository().Update(ctx, batch)
		return
	}

	now := time.Now()
	batch.Status = entity.BatchStatusCompleted
	if batch.Succeeded == 0 && batch.Failed > 0 {
		batch.Status = entity.BatchStatusFailed
	}
	batch.CompletedAt = &now
	batch.UpdatedAt = now
	if err := uow.GenerationBatchRepository().Update(ctx, batch); err != nil {
		log.Printf("[ERROR] Failed to finish batch %s: %v", batch.Id, err)
		return
	}

	cs.progress.Delete(batch.Id.String())
	cs.publishEvent(ctx, events.NewBatchCompleted(batch.Id.String(), batch.Succeeded, batch.Failed))
	cs.broadcast(batch, nil, string(batch.Status), "")
	log.Printf("[SUCCESS] Batch %s finished: %d succeeded, %d failed", batch.Id, batch.Succeeded, batch.Failed)
}

func (cs *consumerService) broadcast(batch *entity.GenerationBatch, item *entity.GenerationItem, status, errMsg string) {
	update := websocket.ProgressUpdate{
		BatchId:    batch.Id,
		Status:     status,
		Succeeded:  batch.Succeeded,
		Failed:     batch.Failed,
		TotalItems: batch.TotalItems,
		Message:    errMsg,
		At:         time.Now(),
	}
	if item != nil {
		update.ItemId = item.Id
		update.SKU = item.SKU
	}

	cs.progress.Save(batch.Id.String(), update)
	if cs.hub != nil {
		cs.hub.Send(batch.UserId, update)
	}
}

func (cs *consumerService) publishEvent(ctx context.Context, evt events.BaseEvent) {
	if cs.eventPublisher == nil {
		return
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish event %s: %v", evt.EventType(), err)
	}
}
