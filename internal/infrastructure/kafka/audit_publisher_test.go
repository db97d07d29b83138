package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/cloudevents"
	sharedKafka "github.com/facilitymanager1/fieldsync-sub006/pkg/kafka"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
)

type published struct {
	topic string
	event *cloudevents.FieldSyncCloudEvent
}

type stubProducer struct {
	sync     []published
	async    []published
	syncErr  error
	asyncErr error
}

func (p *stubProducer) PublishEvent(ctx context.Context, topic string, event *cloudevents.FieldSyncCloudEvent) error {
	p.sync = append(p.sync, published{topic: topic, event: event})
	return p.syncErr
}

func (p *stubProducer) PublishEventAsync(ctx context.Context, topic string, event *cloudevents.FieldSyncCloudEvent, callback func(error)) {
	p.async = append(p.async, published{topic: topic, event: event})
	if callback != nil {
		callback(p.asyncErr)
	}
}

func newTestPublisher(producer *stubProducer) *AuditPublisher {
	factory := cloudevents.NewEventFactory(cloudevents.SourceShiftService)
	logger := logging.New(logging.DefaultConfig("test"))
	return NewAuditPublisher(producer, factory, logger)
}

func TestRecordEventRoutesByFamily(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		event     domain.DomainEvent
		wantTopic string
		wantType  string
	}{
		{
			name: "shift started",
			event: &domain.ShiftStartedEvent{
				ShiftID: "shift-001", WorkerID: "worker-001", SiteID: "site-001",
				ScheduledStart: now, ScheduledEnd: now.Add(8 * time.Hour), StartedAt: now,
			},
			wantTopic: sharedKafka.Topics.ShiftEvents,
			wantType:  cloudevents.ShiftStarted,
		},
		{
			name: "transition rejected",
			event: &domain.TransitionRejectedEvent{
				ShiftID: "shift-001", WorkerID: "worker-001",
				From: domain.StateIdle, To: domain.StateOnBreak, Actor: domain.ActorUser,
				Errors: []string{"invalid transition from idle to on_break"}, RejectedAt: now,
			},
			wantTopic: sharedKafka.Topics.ShiftEvents,
			wantType:  cloudevents.TransitionRejected,
		},
		{
			name: "site exited",
			event: &domain.SiteExitedEvent{
				ShiftID: "shift-001", WorkerID: "worker-001", SiteID: "site-001",
				EventKind: domain.VisitEventExit, TimeOnSite: 3600, ExitedAt: now,
			},
			wantTopic: sharedKafka.Topics.SiteVisitEvents,
			wantType:  cloudevents.SiteExited,
		},
		{
			name: "break ended",
			event: &domain.BreakEndedEvent{
				ShiftID: "shift-001", WorkerID: "worker-001",
				BreakType: domain.BreakTypeLunch, Duration: 30, Actor: domain.ActorUser, EndedAt: now,
			},
			wantTopic: sharedKafka.Topics.BreakEvents,
			wantType:  cloudevents.BreakEnded,
		},
		{
			name: "shift cancelled",
			event: &domain.ShiftClosedEvent{
				ShiftID: "shift-001", WorkerID: "worker-001",
				State: domain.StateCancelled, ClosedAt: now,
			},
			wantTopic: sharedKafka.Topics.ShiftEvents,
			wantType:  cloudevents.ShiftCancelled,
		},
		{
			name: "compliance violation",
			event: &domain.ComplianceViolationEvent{
				ShiftID: "shift-001", WorkerID: "worker-001", Score: 55, EvaluatedAt: now,
			},
			wantTopic: sharedKafka.Topics.ComplianceEvents,
			wantType:  cloudevents.ComplianceViolation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			producer := &stubProducer{}
			publisher := newTestPublisher(producer)

			if err := publisher.RecordEvent(context.Background(), "shift-001", "worker-001", tc.event); err != nil {
				t.Fatalf("RecordEvent failed: %v", err)
			}

			if len(producer.async) != 1 || producer.async[0].topic != tc.wantTopic {
				t.Errorf("expected async publish to %s, got %+v", tc.wantTopic, producer.async)
			}
			if len(producer.sync) != 1 || producer.sync[0].topic != sharedKafka.Topics.ShiftAudit {
				t.Errorf("expected audit publish to %s, got %+v", sharedKafka.Topics.ShiftAudit, producer.sync)
			}
			if producer.sync[0].event.Type != tc.wantType {
				t.Errorf("expected event type %s, got %s", tc.wantType, producer.sync[0].event.Type)
			}
			if producer.sync[0].event.WorkerID != "worker-001" {
				t.Errorf("expected worker extension, got %q", producer.sync[0].event.WorkerID)
			}
		})
	}
}

func TestRecordEventReturnsAuditError(t *testing.T) {
	producer := &stubProducer{syncErr: errors.New("broker down")}
	publisher := newTestPublisher(producer)

	err := publisher.RecordEvent(context.Background(), "shift-001", "worker-001", &domain.ShiftStartedEvent{
		ShiftID: "shift-001", WorkerID: "worker-001", StartedAt: time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("expected error when the audit topic write fails")
	}
}

func TestRecordEventAsyncFailureIsSwallowed(t *testing.T) {
	producer := &stubProducer{asyncErr: errors.New("broker down")}
	publisher := newTestPublisher(producer)

	err := publisher.RecordEvent(context.Background(), "shift-001", "worker-001", &domain.ShiftStartedEvent{
		ShiftID: "shift-001", WorkerID: "worker-001", StartedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("expected async failure to be logged only, got %v", err)
	}
}
