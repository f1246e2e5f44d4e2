package events

import "time"

// Event type codes published on the bus. NATS subjects are derived
// from these ("events.<TYPE>").
const (
	TypeBatchStarted   = "GENERATION_BATCH_STARTED"
	TypeItemGenerated  = "GENERATION_ITEM_COMPLETED"
	TypeItemFailed     = "GENERATION_ITEM_FAILED"
	TypeBatchCompleted = "GENERATION_BATCH_COMPLETED"
	TypeExportReady    = "EXPORT_READY"
	TypeInvoiceIssued  = "INVOICE_ISSUED"
	TypeUserRegistered = "USER_REGISTERED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the concrete implementation every publisher uses.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds an event of the given type stamped with the current time.
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func NewBatchStarted(batchID string, itemCount int) BaseEvent {
	return New(TypeBatchStarted, map[string]interface{}{
		"batch_id":   batchID,
		"item_count": itemCount,
	})
}

func NewItemGenerated(batchID, itemID, title string) BaseEvent {
	return New(TypeItemGenerated, map[string]interface{}{
		"batch_id": batchID,
		"item_id":  itemID,
		"title":    title,
	})
}

func NewItemFailed(batchID, itemID, reason string) BaseEvent {
	return New(TypeItemFailed, map[string]interface{}{
		"batch_id": batchID,
		"item_id":  itemID,
		"reason":   reason,
	})
}

func NewBatchCompleted(batchID string, succeeded, failed int) BaseEvent {
	return New(TypeBatchCompleted, map[string]interface{}{
		"batch_id":  batchID,
		"succeeded": succeeded,
		"failed":    failed,
	})
}

func NewExportReady(exportID string, rowCount int) BaseEvent {
	return New(TypeExportReady, map[string]interface{}{
		"export_id": exportID,
		"row_count": rowCount,
	})
}

func NewInvoiceIssued(invoiceID, invoiceNumber string, total float64) BaseEvent {
	return New(TypeInvoiceIssued, map[string]interface{}{
		"invoice_id":     invoiceID,
		"invoice_number": invoiceNumber,
		"total_amount":   total,
	})
}
