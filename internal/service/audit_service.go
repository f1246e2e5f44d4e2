package service

import (
	"context"

	"jewel-backoffice-be/internal/pkg/logger"

	"jewel-backoffice-be/pkg/events"
	pktNats "jewel-backoffice-be/pkg/nats"
)

// auditDurableName keeps the consumer position across restarts so no
// event escapes the trail.
const auditDurableName = "backoffice-audit"

type IAuditService interface {
	Start() error
}

// auditService mirrors every event on the bus into the structured log,
// giving operators one place to trace what the system did and when.
type auditService struct {
	subscriber *pktNats.Subscriber
	log        logger.ILogger
}

func NewAuditService(subscriber *pktNats.Subscriber, log logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		log:        log,
	}
}

func (s *auditService) Start() error {
	if s.subscriber == nil {
		s.log.Warn("AuditService", "event bus unavailable, audit trail disabled", nil)
		return nil
	}
	return s.subscriber.Subscribe("events.>", auditDurableName, s.record)
}

func (s *auditService) record(_ context.Context, event events.Event) error {
	details := map[string]interface{}{
		"occurred_at": event.Timestamp(),
	}
	for k, v := range event.Payload() {
		details[k] = v
	}
	s.log.Info("AuditService", event.EventType(), details)
	return nil
}
