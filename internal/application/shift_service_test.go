package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	sharedErrors "github.com/facilitymanager1/fieldsync-sub006/pkg/errors"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
)

// stubShiftRepo is a test double for domain.ShiftRepository. Each method
// delegates to the corresponding Fn field when set.
type stubShiftRepo struct {
	SaveFn               func(ctx context.Context, shift *domain.Shift) error
	FindByIDFn           func(ctx context.Context, shiftID string) (*domain.Shift, error)
	FindActiveByWorkerFn func(ctx context.Context, workerID string) (*domain.Shift, error)
	FindByWorkerFn       func(ctx context.Context, workerID string, limit, offset int) ([]*domain.Shift, error)
	FindByStateFn        func(ctx context.Context, state domain.ShiftState) ([]*domain.Shift, error)
	DeleteFn             func(ctx context.Context, shiftID string) error

	saveCount int
}

func (r *stubShiftRepo) Save(ctx context.Context, shift *domain.Shift) error {
	r.saveCount++
	if r.SaveFn != nil {
		return r.SaveFn(ctx, shift)
	}
	return nil
}

func (r *stubShiftRepo) FindByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	if r.FindByIDFn != nil {
		return r.FindByIDFn(ctx, shiftID)
	}
	return nil, nil
}

func (r *stubShiftRepo) FindActiveByWorker(ctx context.Context, workerID string) (*domain.Shift, error) {
	if r.FindActiveByWorkerFn != nil {
		return r.FindActiveByWorkerFn(ctx, workerID)
	}
	return nil, nil
}

func (r *stubShiftRepo) FindByWorker(ctx context.Context, workerID string, limit, offset int) ([]*domain.Shift, error) {
	if r.FindByWorkerFn != nil {
		return r.FindByWorkerFn(ctx, workerID, limit, offset)
	}
	return nil, nil
}

func (r *stubShiftRepo) FindByState(ctx context.Context, state domain.ShiftState) ([]*domain.Shift, error) {
	if r.FindByStateFn != nil {
		return r.FindByStateFn(ctx, state)
	}
	return nil, nil
}

func (r *stubShiftRepo) Delete(ctx context.Context, shiftID string) error {
	if r.DeleteFn != nil {
		return r.DeleteFn(ctx, shiftID)
	}
	return nil
}

// stubAuditSink records delivered events and optionally fails every call.
type stubAuditSink struct {
	events []domain.DomainEvent
	err    error
}

func (s *stubAuditSink) RecordEvent(ctx context.Context, shiftID, workerID string, event domain.DomainEvent) error {
	s.events = append(s.events, event)
	return s.err
}

func (s *stubAuditSink) eventTypes() []string {
	types := make([]string, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.EventType())
	}
	return types
}

// stubGeofenceRegistry serves a fixed fence set per site.
type stubGeofenceRegistry struct {
	fences map[string][]domain.Geofence
	err    error
}

func (g *stubGeofenceRegistry) GetGeofencesForSite(ctx context.Context, siteID string) ([]domain.Geofence, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.fences[siteID], nil
}

func newTestService(repo *stubShiftRepo, sink *stubAuditSink, geo *stubGeofenceRegistry) *ShiftApplicationService {
	logger := logging.New(logging.DefaultConfig("test"))
	var auditSink domain.AuditSink
	if sink != nil {
		auditSink = sink
	}
	var registry domain.GeofenceRegistry
	if geo != nil {
		registry = geo
	}
	return NewShiftApplicationService(repo, auditSink, registry, domain.NewStandardCompliancePolicy(), nil, logger)
}

func testTime(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func testLocation(at time.Time) domain.Location {
	return domain.Location{
		Latitude:  40.7128,
		Longitude: -74.0060,
		Accuracy:  5,
		Timestamp: at,
		Source:    domain.SourceGPS,
	}
}

// activeShift builds a shift that has checked in and is on the floor.
func activeShift(t *testing.T) *domain.Shift {
	t.Helper()
	shift := domain.NewShift("shift-001", "worker-001", "site-001", testTime(9, 0), testTime(17, 0))
	if err := shift.RequestTransition(domain.StateCheckingIn, domain.ActorUser, "", nil, testTime(9, 0)); err != nil {
		t.Fatalf("checking_in: %v", err)
	}
	if err := shift.RequestTransition(domain.StateInShift, domain.ActorUser, "", nil, testTime(9, 2)); err != nil {
		t.Fatalf("in_shift: %v", err)
	}
	shift.ClearDomainEvents()
	return shift
}

func TestStartShift(t *testing.T) {
	var saved *domain.Shift
	repo := &stubShiftRepo{
		SaveFn: func(ctx context.Context, shift *domain.Shift) error {
			saved = shift
			return nil
		},
	}
	sink := &stubAuditSink{}
	service := newTestService(repo, sink, nil)

	dto, err := service.StartShift(context.Background(), StartShiftCommand{
		WorkerID:       "worker-001",
		SiteID:         "site-001",
		ScheduledStart: testTime(9, 0),
		ScheduledEnd:   testTime(17, 0),
	})
	if err != nil {
		t.Fatalf("StartShift failed: %v", err)
	}
	if dto.State != string(domain.StateIdle) {
		t.Errorf("expected state idle, got %s", dto.State)
	}
	if dto.WorkerID != "worker-001" {
		t.Errorf("expected workerId worker-001, got %s", dto.WorkerID)
	}
	if dto.ShiftID == "" {
		t.Error("expected a generated shiftId")
	}
	if saved == nil {
		t.Fatal("expected shift to be saved")
	}
	if len(sink.events) != 1 || sink.events[0].EventType() != "fieldsync.shift.shift-started" {
		t.Errorf("expected one shift-started audit event, got %v", sink.eventTypes())
	}
	if len(saved.GetDomainEvents()) != 0 {
		t.Error("expected domain events to be drained after audit")
	}
}

func TestStartShiftAlreadyActive(t *testing.T) {
	existing := activeShift(t)
	repo := &stubShiftRepo{
		FindActiveByWorkerFn: func(ctx context.Context, workerID string) (*domain.Shift, error) {
			return existing, nil
		},
	}
	service := newTestService(repo, nil, nil)

	_, err := service.StartShift(context.Background(), StartShiftCommand{
		WorkerID:       "worker-001",
		ScheduledStart: testTime(9, 0),
		ScheduledEnd:   testTime(17, 0),
	})
	if err == nil {
		t.Fatal("expected error for worker with an active shift")
	}
	appErr, ok := err.(*sharedErrors.AppError)
	if !ok || appErr.Code != sharedErrors.CodeShiftAlreadyActive {
		t.Errorf("expected SHIFT_ALREADY_ACTIVE, got %v", err)
	}
	if repo.saveCount != 0 {
		t.Error("expected no save on rejection")
	}
}

func TestStartShiftRepoError(t *testing.T) {
	repo := &stubShiftRepo{
		FindActiveByWorkerFn: func(ctx context.Context, workerID string) (*domain.Shift, error) {
			return nil, errors.New("connection reset")
		},
	}
	service := newTestService(repo, nil, nil)

	_, err := service.StartShift(context.Background(), StartShiftCommand{WorkerID: "worker-001"})
	if err == nil {
		t.Fatal("expected error when active-shift lookup fails")
	}
}

func TestRequestTransition(t *testing.T) {
	shift := domain.NewShift("shift-001", "worker-001", "site-001", testTime(9, 0), testTime(17, 0))
	shift.ClearDomainEvents()
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	sink := &stubAuditSink{}
	service := newTestService(repo, sink, nil)

	dto, err := service.RequestTransition(context.Background(), RequestTransitionCommand{
		ShiftID: "shift-001",
		ToState: domain.StateCheckingIn,
		Actor:   domain.ActorUser,
		At:      testTime(9, 0),
	})
	if err != nil {
		t.Fatalf("RequestTransition failed: %v", err)
	}
	if dto.State != string(domain.StateCheckingIn) {
		t.Errorf("expected state checking_in, got %s", dto.State)
	}
	if repo.saveCount != 1 {
		t.Errorf("expected one save, got %d", repo.saveCount)
	}
	if len(sink.events) != 1 || sink.events[0].EventType() != "fieldsync.shift.shift-transitioned" {
		t.Errorf("expected one shift-transitioned audit event, got %v", sink.eventTypes())
	}
}

func TestRequestTransitionRejectedIsPersisted(t *testing.T) {
	shift := domain.NewShift("shift-001", "worker-001", "site-001", testTime(9, 0), testTime(17, 0))
	shift.ClearDomainEvents()
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	sink := &stubAuditSink{}
	service := newTestService(repo, sink, nil)

	_, err := service.RequestTransition(context.Background(), RequestTransitionCommand{
		ShiftID: "shift-001",
		ToState: domain.StateOnBreak,
		Actor:   domain.ActorUser,
		At:      testTime(9, 0),
	})
	if err == nil {
		t.Fatal("expected rejection for idle -> on_break")
	}
	if shift.State != domain.StateIdle {
		t.Errorf("expected state to stay idle, got %s", shift.State)
	}
	if len(shift.StateHistory) != 1 || shift.StateHistory[0].IsValid {
		t.Fatal("expected one rejected history record")
	}
	if repo.saveCount != 1 {
		t.Errorf("expected the rejection to be saved, got %d saves", repo.saveCount)
	}
	if len(sink.events) != 1 || sink.events[0].EventType() != "fieldsync.shift.transition-rejected" {
		t.Errorf("expected transition-rejected audit event, got %v", sink.eventTypes())
	}
}

func TestRequestTransitionTerminalNotPersisted(t *testing.T) {
	shift := activeShift(t)
	if err := shift.RequestTransition(domain.StateCancelled, domain.ActorAdmin, "test", nil, testTime(10, 0)); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	shift.ClearDomainEvents()
	historyLen := len(shift.StateHistory)

	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	service := newTestService(repo, nil, nil)

	_, err := service.RequestTransition(context.Background(), RequestTransitionCommand{
		ShiftID: "shift-001",
		ToState: domain.StateInShift,
		Actor:   domain.ActorUser,
		At:      testTime(10, 5),
	})
	if !errors.Is(err, domain.ErrTerminalState) {
		t.Fatalf("expected terminal state error, got %v", err)
	}
	if len(shift.StateHistory) != historyLen {
		t.Error("expected history to be unchanged on a terminal shift")
	}
	if repo.saveCount != 0 {
		t.Errorf("expected no save on a terminal shift, got %d", repo.saveCount)
	}
}

func TestRequestTransitionNotFound(t *testing.T) {
	repo := &stubShiftRepo{}
	service := newTestService(repo, nil, nil)

	_, err := service.RequestTransition(context.Background(), RequestTransitionCommand{
		ShiftID: "missing",
		ToState: domain.StateCheckingIn,
		Actor:   domain.ActorUser,
	})
	if err == nil {
		t.Fatal("expected error for unknown shift")
	}
	appErr, ok := err.(*sharedErrors.AppError)
	if !ok || appErr.Code != sharedErrors.CodeNotFound {
		t.Errorf("expected RESOURCE_NOT_FOUND, got %v", err)
	}
}

func TestRequestTransitionTerminalEvaluatesCompliance(t *testing.T) {
	shift := activeShift(t)
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	sink := &stubAuditSink{}
	service := newTestService(repo, sink, nil)

	dto, err := service.RequestTransition(context.Background(), RequestTransitionCommand{
		ShiftID: "shift-001",
		ToState: domain.StateCancelled,
		Actor:   domain.ActorAdmin,
		Reason:  "site closed",
		At:      testTime(12, 0),
	})
	if err != nil {
		t.Fatalf("RequestTransition failed: %v", err)
	}
	if dto.State != string(domain.StateCancelled) {
		t.Errorf("expected state cancelled, got %s", dto.State)
	}
	if dto.ComplianceScore != 100 || !dto.IsCompliant {
		t.Errorf("expected compliant shift with score 100, got %v / %v", dto.ComplianceScore, dto.IsCompliant)
	}
	// initial save plus the compliance re-save
	if repo.saveCount != 2 {
		t.Errorf("expected two saves on terminal transition, got %d", repo.saveCount)
	}

	sawClosed := false
	for _, eventType := range sink.eventTypes() {
		if eventType == "fieldsync.shift.shift-cancelled" {
			sawClosed = true
		}
	}
	if !sawClosed {
		t.Errorf("expected shift-cancelled audit event, got %v", sink.eventTypes())
	}
}

func TestEnterSite(t *testing.T) {
	shift := activeShift(t)
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	sink := &stubAuditSink{}
	service := newTestService(repo, sink, nil)

	at := testTime(9, 5)
	dto, err := service.EnterSite(context.Background(), EnterSiteCommand{
		ShiftID:  "shift-001",
		SiteID:   "site-001",
		Location: testLocation(at),
		Planned:  true,
	})
	if err != nil {
		t.Fatalf("EnterSite failed: %v", err)
	}
	if dto.SiteID != "site-001" || !dto.Planned {
		t.Errorf("unexpected visit: %+v", dto)
	}
	if !dto.EnterTime.Equal(at) {
		t.Errorf("expected enterTime %v, got %v", at, dto.EnterTime)
	}
	if len(sink.events) != 1 || sink.events[0].EventType() != "fieldsync.shift.site-entered" {
		t.Errorf("expected site-entered audit event, got %v", sink.eventTypes())
	}
}

func TestEnterSiteOutsideGeofence(t *testing.T) {
	shift := activeShift(t)
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	geo := &stubGeofenceRegistry{
		fences: map[string][]domain.Geofence{
			"site-001": {{Name: "yard", SiteID: "site-001", Latitude: 34.0522, Longitude: -118.2437, Radius: 100}},
		},
	}
	service := newTestService(repo, nil, geo)

	// NYC fix against an LA fence
	_, err := service.EnterSite(context.Background(), EnterSiteCommand{
		ShiftID:  "shift-001",
		SiteID:   "site-001",
		Location: testLocation(testTime(9, 5)),
	})
	if err == nil {
		t.Fatal("expected rejection for location outside the geofence")
	}
	appErr, ok := err.(*sharedErrors.AppError)
	if !ok || appErr.Code != sharedErrors.CodeValidationError {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
	if len(shift.SiteVisits) != 0 {
		t.Error("expected no visit to be opened")
	}
	if repo.saveCount != 0 {
		t.Error("expected no save on geofence rejection")
	}
}

func TestEnterSiteInsideGeofence(t *testing.T) {
	shift := activeShift(t)
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	geo := &stubGeofenceRegistry{
		fences: map[string][]domain.Geofence{
			"site-001": {{Name: "yard", SiteID: "site-001", Latitude: 40.7128, Longitude: -74.0060, Radius: 100}},
		},
	}
	service := newTestService(repo, nil, geo)

	_, err := service.EnterSite(context.Background(), EnterSiteCommand{
		ShiftID:  "shift-001",
		SiteID:   "site-001",
		Location: testLocation(testTime(9, 5)),
	})
	if err != nil {
		t.Fatalf("EnterSite failed: %v", err)
	}
}

func TestEnterSiteGeofenceLookupFailureIsNotFatal(t *testing.T) {
	shift := activeShift(t)
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	geo := &stubGeofenceRegistry{err: errors.New("registry unavailable")}
	service := newTestService(repo, nil, geo)

	_, err := service.EnterSite(context.Background(), EnterSiteCommand{
		ShiftID:  "shift-001",
		SiteID:   "site-001",
		Location: testLocation(testTime(9, 5)),
	})
	if err != nil {
		t.Fatalf("expected entry to proceed when fence lookup fails, got %v", err)
	}
}

func TestEnterSiteAlreadyOpen(t *testing.T) {
	shift := activeShift(t)
	if _, err := shift.EnterSite("site-001", testLocation(testTime(9, 5)), true); err != nil {
		t.Fatalf("first enter: %v", err)
	}
	shift.ClearDomainEvents()
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	service := newTestService(repo, nil, nil)

	_, err := service.EnterSite(context.Background(), EnterSiteCommand{
		ShiftID:  "shift-001",
		SiteID:   "site-002",
		Location: testLocation(testTime(9, 10)),
	})
	if !errors.Is(err, domain.ErrVisitAlreadyOpen) {
		t.Fatalf("expected visit already open error, got %v", err)
	}
}

func TestExitSite(t *testing.T) {
	shift := activeShift(t)
	if _, err := shift.EnterSite("site-001", testLocation(testTime(9, 5)), true); err != nil {
		t.Fatalf("enter: %v", err)
	}
	shift.ClearDomainEvents()
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	sink := &stubAuditSink{}
	service := newTestService(repo, sink, nil)

	dto, err := service.ExitSite(context.Background(), ExitSiteCommand{
		ShiftID:  "shift-001",
		Location: testLocation(testTime(10, 5)),
	})
	if err != nil {
		t.Fatalf("ExitSite failed: %v", err)
	}
	if dto.EventKind != string(domain.VisitEventExit) {
		t.Errorf("expected default event kind exit, got %s", dto.EventKind)
	}
	if dto.TimeOnSite != 3600 {
		t.Errorf("expected 3600 seconds on site, got %d", dto.TimeOnSite)
	}
	if len(sink.events) != 1 || sink.events[0].EventType() != "fieldsync.shift.site-exited" {
		t.Errorf("expected site-exited audit event, got %v", sink.eventTypes())
	}
}

func TestStartAndEndBreak(t *testing.T) {
	shift := activeShift(t)
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	service := newTestService(repo, nil, nil)

	started, err := service.StartBreak(context.Background(), StartBreakCommand{
		ShiftID:         "shift-001",
		BreakType:       domain.BreakTypeLunch,
		PlannedDuration: 30,
		At:              testTime(12, 0),
	})
	if err != nil {
		t.Fatalf("StartBreak failed: %v", err)
	}
	if started.Type != string(domain.BreakTypeLunch) || !started.IsAuthorized {
		t.Errorf("unexpected break: %+v", started)
	}
	if shift.State != domain.StateOnBreak {
		t.Errorf("expected state on_break, got %s", shift.State)
	}

	ended, err := service.EndBreak(context.Background(), EndBreakCommand{
		ShiftID: "shift-001",
		At:      testTime(12, 30),
	})
	if err != nil {
		t.Fatalf("EndBreak failed: %v", err)
	}
	if ended.EndTime == nil || ended.Duration != 30 {
		t.Errorf("expected a closed 30-minute break, got %+v", ended)
	}
	if shift.State != domain.StateInShift {
		t.Errorf("expected state in_shift, got %s", shift.State)
	}
}

func TestEndBreakNoOpenBreak(t *testing.T) {
	shift := activeShift(t)
	repo := &stubShiftRepo{
		FindByIDFn: func(ctx context.Context, shiftID string) (*domain.Shift, error) {
			return shift, nil
		},
	}
	service := newTestService(repo, nil, nil)

	_, err := service.EndBreak(context.Background(), EndBreakCommand{
		ShiftID: "shift-001",
		At:      testTime(12, 30),
	})
	if !errors.Is(err, domain.ErrNoOpenBreak) {
		t.Fatalf("expected no open break error, got %v", err)
	}
}

func TestAuditSinkFailureDoesNotFailCall(t *testing.T) {
	repo := &stubShiftRepo{}
	sink := &stubAuditSink{err: errors.New("broker down")}
	service := newTestService(repo, sink, nil)

	_, err := service.StartShift(context.Background(), StartShiftCommand{
		WorkerID:       "worker-001",
		ScheduledStart: testTime(9, 0),
		ScheduledEnd:   testTime(17, 0),
	})
	if err != nil {
		t.Fatalf("expected success despite audit sink failure, got %v", err)
	}
	if len(sink.events) != 1 {
		t.Errorf("expected the event to still be offered to the sink, got %d", len(sink.events))
	}
}

func TestGetShiftNotFound(t *testing.T) {
	repo := &stubShiftRepo{}
	service := newTestService(repo, nil, nil)

	_, err := service.GetShift(context.Background(), GetShiftQuery{ShiftID: "missing"})
	if err == nil {
		t.Fatal("expected error for unknown shift")
	}
	appErr, ok := err.(*sharedErrors.AppError)
	if !ok || appErr.Code != sharedErrors.CodeNotFound {
		t.Errorf("expected RESOURCE_NOT_FOUND, got %v", err)
	}
}

func TestGetActiveShiftNotFound(t *testing.T) {
	repo := &stubShiftRepo{}
	service := newTestService(repo, nil, nil)

	_, err := service.GetActiveShift(context.Background(), GetActiveShiftQuery{WorkerID: "worker-001"})
	appErr, ok := err.(*sharedErrors.AppError)
	if !ok || appErr.Code != sharedErrors.CodeNotFound {
		t.Errorf("expected RESOURCE_NOT_FOUND, got %v", err)
	}
}

func TestListShiftsDefaultLimit(t *testing.T) {
	var gotLimit, gotOffset int
	repo := &stubShiftRepo{
		FindByWorkerFn: func(ctx context.Context, workerID string, limit, offset int) ([]*domain.Shift, error) {
			gotLimit, gotOffset = limit, offset
			return []*domain.Shift{activeShift(t)}, nil
		},
	}
	service := newTestService(repo, nil, nil)

	dtos, err := service.ListShifts(context.Background(), ListShiftsQuery{WorkerID: "worker-001"})
	if err != nil {
		t.Fatalf("ListShifts failed: %v", err)
	}
	if gotLimit != 50 || gotOffset != 0 {
		t.Errorf("expected default limit 50 offset 0, got %d/%d", gotLimit, gotOffset)
	}
	if len(dtos) != 1 {
		t.Errorf("expected one shift, got %d", len(dtos))
	}
}

func TestMapperNilShift(t *testing.T) {
	if dto := ToShiftDTO(nil); dto != nil {
		t.Errorf("expected nil DTO for nil shift, got %+v", dto)
	}
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.lock("shift-001")
	if len(km.locks) != 1 {
		t.Fatalf("expected 1 entry while held, got %d", len(km.locks))
	}
	unlock()
	if len(km.locks) != 0 {
		t.Errorf("expected empty lock map after release, got %d entries", len(km.locks))
	}
}

func TestKeyedMutexSerializesUnderContention(t *testing.T) {
	km := newKeyedMutex()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.lock("shift-001")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("expected 50 serialized increments, got %d", counter)
	}
	if len(km.locks) != 0 {
		t.Errorf("expected empty lock map after all releases, got %d entries", len(km.locks))
	}
}
