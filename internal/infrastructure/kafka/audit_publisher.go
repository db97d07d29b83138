package kafka

import (
	"context"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/cloudevents"
	sharedKafka "github.com/facilitymanager1/fieldsync-sub006/pkg/kafka"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
)

// Producer is the publishing surface the audit publisher needs
type Producer interface {
	PublishEvent(ctx context.Context, topic string, event *cloudevents.FieldSyncCloudEvent) error
	PublishEventAsync(ctx context.Context, topic string, event *cloudevents.FieldSyncCloudEvent, callback func(error))
}

// AuditPublisher converts domain events to CloudEvents and publishes them to
// Kafka. Every event lands on the audit topic; domain topics get a copy
// routed by event family. Delivery is best-effort per domain.AuditSink.
type AuditPublisher struct {
	producer Producer
	factory  *cloudevents.EventFactory
	logger   *logging.Logger
}

// NewAuditPublisher creates an AuditPublisher
func NewAuditPublisher(producer Producer, factory *cloudevents.EventFactory, logger *logging.Logger) *AuditPublisher {
	return &AuditPublisher{
		producer: producer,
		factory:  factory,
		logger:   logger,
	}
}

// RecordEvent implements domain.AuditSink
func (p *AuditPublisher) RecordEvent(ctx context.Context, shiftID, workerID string, event domain.DomainEvent) error {
	cloudEvent, topic := p.convert(ctx, shiftID, workerID, event)
	if cloudEvent == nil {
		p.logger.Warn("Unknown domain event type", "eventType", event.EventType())
		return nil
	}

	// Domain topic copy is fire-and-forget; the audit topic write is the
	// one the caller hears about.
	p.producer.PublishEventAsync(ctx, topic, cloudEvent, func(err error) {
		if err != nil {
			p.logger.WithError(err).Warn("Failed to publish domain event",
				"topic", topic, "eventType", cloudEvent.Type)
		}
	})

	return p.producer.PublishEvent(ctx, sharedKafka.Topics.ShiftAudit, cloudEvent)
}

// convert maps a domain event to its CloudEvent and domain topic
func (p *AuditPublisher) convert(ctx context.Context, shiftID, workerID string, event domain.DomainEvent) (*cloudevents.FieldSyncCloudEvent, string) {
	switch e := event.(type) {
	case *domain.ShiftStartedEvent:
		return p.factory.CreateShiftStartedEvent(ctx, e.ShiftID, e.WorkerID, e.SiteID, e.ScheduledStart, e.ScheduledEnd),
			sharedKafka.Topics.ShiftEvents

	case *domain.ShiftTransitionedEvent:
		return p.factory.CreateShiftTransitionedEvent(ctx, e.ShiftID, e.WorkerID,
				string(e.From), string(e.To), string(e.Actor), e.Reason, e.TransitionedAt),
			sharedKafka.Topics.ShiftEvents

	case *domain.TransitionRejectedEvent:
		return p.factory.CreateTransitionRejectedEvent(ctx, e.ShiftID, e.WorkerID,
				string(e.From), string(e.To), string(e.Actor), e.Errors, e.RejectedAt),
			sharedKafka.Topics.ShiftEvents

	case *domain.SiteEnteredEvent:
		return p.factory.CreateSiteEnteredEvent(ctx, e.ShiftID, e.WorkerID, e.SiteID, e.EnteredAt),
			sharedKafka.Topics.SiteVisitEvents

	case *domain.SiteExitedEvent:
		return p.factory.CreateSiteExitedEvent(ctx, e.ShiftID, e.WorkerID, e.SiteID, e.ExitedAt, e.TimeOnSite),
			sharedKafka.Topics.SiteVisitEvents

	case *domain.BreakStartedEvent:
		return p.factory.CreateBreakStartedEvent(ctx, e.ShiftID, e.WorkerID,
				string(e.BreakType), e.IsAuthorized, e.StartedAt),
			sharedKafka.Topics.BreakEvents

	case *domain.BreakEndedEvent:
		return p.factory.CreateBreakEndedEvent(ctx, e.ShiftID, e.WorkerID,
				string(e.BreakType), e.Duration, e.EndedAt),
			sharedKafka.Topics.BreakEvents

	case *domain.ShiftClosedEvent:
		return p.factory.CreateShiftClosedEvent(ctx, e.EventType(), e.ShiftID, e.WorkerID,
				string(e.State), e.Metrics.TotalDuration, e.Metrics.BreakTime,
				e.Metrics.WorkingTime, e.Metrics.Efficiency, e.Metrics.SiteTime),
			sharedKafka.Topics.ShiftEvents

	case *domain.ComplianceViolationEvent:
		return p.factory.CreateComplianceViolationEvent(ctx, e.ShiftID, e.WorkerID,
				e.Score, e.Violations, e.EvaluatedAt),
			sharedKafka.Topics.ComplianceEvents

	default:
		return nil, ""
	}
}
