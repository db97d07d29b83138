package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFactory creates CloudEvents for shift domain events
type EventFactory struct {
	source string
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{source: source}
}

// CreateEvent creates a new FieldSyncCloudEvent with the given parameters
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *FieldSyncCloudEvent {
	event := &FieldSyncCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
		Extensions:      make(map[string]interface{}),
	}

	return event
}

// CreateEventWithCorrelation creates an event with correlation tracking
func (f *EventFactory) CreateEventWithCorrelation(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
	correlationID string,
) *FieldSyncCloudEvent {
	event := f.CreateEvent(ctx, eventType, subject, data)
	event.CorrelationID = correlationID
	return event
}

// CreateShiftStartedEvent creates a ShiftStarted event
func (f *EventFactory) CreateShiftStartedEvent(
	ctx context.Context,
	shiftID string,
	workerID string,
	siteID string,
	scheduledStart time.Time,
	scheduledEnd time.Time,
) *FieldSyncCloudEvent {
	data := ShiftStartedData{
		ShiftID:        shiftID,
		WorkerID:       workerID,
		SiteID:         siteID,
		ScheduledStart: scheduledStart,
		ScheduledEnd:   scheduledEnd,
	}
	return f.CreateEvent(ctx, ShiftStarted, "shift/"+shiftID, data).
		WithWorker(workerID).WithSite(siteID)
}

// CreateShiftTransitionedEvent creates a ShiftTransitioned event
func (f *EventFactory) CreateShiftTransitionedEvent(
	ctx context.Context,
	shiftID string,
	workerID string,
	fromState string,
	toState string,
	actor string,
	reason string,
	at time.Time,
) *FieldSyncCloudEvent {
	data := ShiftTransitionedData{
		ShiftID:   shiftID,
		WorkerID:  workerID,
		FromState: fromState,
		ToState:   toState,
		Actor:     actor,
		Reason:    reason,
		At:        at,
	}
	return f.CreateEvent(ctx, ShiftTransitioned, "shift/"+shiftID, data).
		WithWorker(workerID)
}

// CreateTransitionRejectedEvent creates a TransitionRejected event
func (f *EventFactory) CreateTransitionRejectedEvent(
	ctx context.Context,
	shiftID string,
	workerID string,
	fromState string,
	toState string,
	actor string,
	validationErrors []string,
	at time.Time,
) *FieldSyncCloudEvent {
	data := TransitionRejectedData{
		ShiftID:          shiftID,
		WorkerID:         workerID,
		FromState:        fromState,
		ToState:          toState,
		Actor:            actor,
		ValidationErrors: validationErrors,
		At:               at,
	}
	return f.CreateEvent(ctx, TransitionRejected, "shift/"+shiftID, data).
		WithWorker(workerID)
}

// CreateSiteEnteredEvent creates a SiteEntered event
func (f *EventFactory) CreateSiteEnteredEvent(
	ctx context.Context,
	shiftID string,
	workerID string,
	siteID string,
	at time.Time,
) *FieldSyncCloudEvent {
	data := SiteVisitData{
		ShiftID:  shiftID,
		WorkerID: workerID,
		SiteID:   siteID,
		At:       at,
	}
	return f.CreateEvent(ctx, SiteEntered, "shift/"+shiftID, data).
		WithWorker(workerID).WithSite(siteID)
}

// CreateSiteExitedEvent creates a SiteExited event
func (f *EventFactory) CreateSiteExitedEvent(
	ctx context.Context,
	shiftID string,
	workerID string,
	siteID string,
	at time.Time,
	timeOnSite int64,
) *FieldSyncCloudEvent {
	data := SiteVisitData{
		ShiftID:    shiftID,
		WorkerID:   workerID,
		SiteID:     siteID,
		At:         at,
		TimeOnSite: timeOnSite,
	}
	return f.CreateEvent(ctx, SiteExited, "shift/"+shiftID, data).
		WithWorker(workerID).WithSite(siteID)
}

// CreateBreakStartedEvent creates a BreakStarted event
func (f *EventFactory) CreateBreakStartedEvent(
	ctx context.Context,
	shiftID string,
	workerID string,
	breakType string,
	authorized bool,
	at time.Time,
) *FieldSyncCloudEvent {
	data := BreakData{
		ShiftID:    shiftID,
		WorkerID:   workerID,
		BreakType:  breakType,
		Authorized: authorized,
		At:         at,
	}
	return f.CreateEvent(ctx, BreakStarted, "shift/"+shiftID, data).
		WithWorker(workerID)
}

// CreateBreakEndedEvent creates a BreakEnded event
func (f *EventFactory) CreateBreakEndedEvent(
	ctx context.Context,
	shiftID string,
	workerID string,
	breakType string,
	duration int,
	at time.Time,
) *FieldSyncCloudEvent {
	data := BreakData{
		ShiftID:   shiftID,
		WorkerID:  workerID,
		BreakType: breakType,
		At:        at,
		Duration:  duration,
	}
	return f.CreateEvent(ctx, BreakEnded, "shift/"+shiftID, data).
		WithWorker(workerID)
}

// CreateShiftClosedEvent creates a ShiftCompleted or ShiftCancelled event
func (f *EventFactory) CreateShiftClosedEvent(
	ctx context.Context,
	eventType string,
	shiftID string,
	workerID string,
	finalState string,
	totalDuration int,
	breakTime int,
	workingTime int,
	efficiency int,
	siteTime int,
) *FieldSyncCloudEvent {
	data := ShiftClosedData{
		ShiftID:       shiftID,
		WorkerID:      workerID,
		FinalState:    finalState,
		TotalDuration: totalDuration,
		BreakTime:     breakTime,
		WorkingTime:   workingTime,
		Efficiency:    efficiency,
		SiteTime:      siteTime,
	}
	return f.CreateEvent(ctx, eventType, "shift/"+shiftID, data).
		WithWorker(workerID)
}

// CreateComplianceViolationEvent creates a ComplianceViolation event
func (f *EventFactory) CreateComplianceViolationEvent(
	ctx context.Context,
	shiftID string,
	workerID string,
	score float64,
	violations []string,
	at time.Time,
) *FieldSyncCloudEvent {
	data := ComplianceViolationData{
		ShiftID:    shiftID,
		WorkerID:   workerID,
		Score:      score,
		Violations: violations,
		At:         at,
	}
	return f.CreateEvent(ctx, ComplianceViolation, "shift/"+shiftID, data).
		WithWorker(workerID)
}
