package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/errors"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/metrics"
)

// keyedMutex serializes operations per key. Operations on different keys
// proceed fully in parallel. Entries are reference-counted and removed once
// the last holder releases, so the map stays bounded by in-flight operations.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// lock acquires the mutex for key and returns its release function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedLock{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// ShiftApplicationService is the concurrency boundary for shift sessions.
// Every mutating call on a given shift is serialized; the audit sink is
// best-effort and never rolls back a state change.
type ShiftApplicationService struct {
	repo       domain.ShiftRepository
	auditSink  domain.AuditSink
	geofences  domain.GeofenceRegistry
	compliance domain.CompliancePolicy
	metrics    *metrics.Metrics
	logger     *logging.Logger
	shiftLocks *keyedMutex
	startLocks *keyedMutex
}

// NewShiftApplicationService creates a new ShiftApplicationService
func NewShiftApplicationService(
	repo domain.ShiftRepository,
	auditSink domain.AuditSink,
	geofences domain.GeofenceRegistry,
	compliance domain.CompliancePolicy,
	m *metrics.Metrics,
	logger *logging.Logger,
) *ShiftApplicationService {
	return &ShiftApplicationService{
		repo:       repo,
		auditSink:  auditSink,
		geofences:  geofences,
		compliance: compliance,
		metrics:    m,
		logger:     logger,
		shiftLocks: newKeyedMutex(),
		startLocks: newKeyedMutex(),
	}
}

// StartShift creates a new shift session for a worker. A worker with an
// existing non-terminal shift cannot start another one.
func (s *ShiftApplicationService) StartShift(ctx context.Context, cmd StartShiftCommand) (*ShiftDTO, error) {
	unlock := s.startLocks.lock(cmd.WorkerID)
	defer unlock()

	active, err := s.repo.FindActiveByWorker(ctx, cmd.WorkerID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to check active shift", "workerId", cmd.WorkerID)
		return nil, fmt.Errorf("failed to check active shift: %w", err)
	}
	if active != nil {
		return nil, errors.ErrShiftAlreadyActive(cmd.WorkerID)
	}

	shift := domain.NewShift(uuid.New().String(), cmd.WorkerID, cmd.SiteID, cmd.ScheduledStart, cmd.ScheduledEnd)

	if err := s.repo.Save(ctx, shift); err != nil {
		s.logger.WithError(err).Error("Failed to save shift", "workerId", cmd.WorkerID)
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}

	s.emitAudit(ctx, shift)
	if s.metrics != nil {
		s.metrics.RecordShiftStarted(cmd.SiteID)
	}

	s.logger.Info("Started shift", "shiftId", shift.ShiftID, "workerId", cmd.WorkerID)
	return ToShiftDTO(shift), nil
}

// RequestTransition applies a state transition to a shift. A rejected
// transition is persisted and audited before the error is returned so the
// failed attempt stays visible in history.
func (s *ShiftApplicationService) RequestTransition(ctx context.Context, cmd RequestTransitionCommand) (*ShiftDTO, error) {
	unlock := s.shiftLocks.lock(cmd.ShiftID)
	defer unlock()

	shift, err := s.loadShift(ctx, cmd.ShiftID)
	if err != nil {
		return nil, err
	}

	at := cmd.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	from := shift.State
	transitionErr := shift.RequestTransition(cmd.ToState, cmd.Actor, cmd.Reason, cmd.Location, at)

	if stderrors.Is(transitionErr, domain.ErrTerminalState) {
		// A terminal shift is immutable; nothing to persist.
		return nil, transitionErr
	}

	// Both outcomes leave a history record worth persisting: a rejection is
	// recorded in stateHistory even though state did not change.
	if saveErr := s.repo.Save(ctx, shift); saveErr != nil {
		s.logger.WithError(saveErr).Error("Failed to save shift", "shiftId", cmd.ShiftID)
		if transitionErr != nil {
			return nil, transitionErr
		}
		return nil, fmt.Errorf("failed to save shift: %w", saveErr)
	}
	s.emitAudit(ctx, shift)

	if transitionErr != nil {
		if s.metrics != nil {
			s.metrics.RecordRejectedTransition(string(from), string(cmd.ToState))
		}
		s.logger.Warn("Transition rejected",
			"shiftId", cmd.ShiftID, "from", from, "to", cmd.ToState, "error", transitionErr.Error())
		return nil, transitionErr
	}

	if s.metrics != nil {
		s.metrics.RecordShiftTransition(string(from), string(cmd.ToState))
	}

	if cmd.ToState.IsTerminal() {
		s.finalizeShift(ctx, shift)
	}

	s.logger.Info("Shift transitioned", "shiftId", cmd.ShiftID, "from", from, "to", cmd.ToState, "actor", cmd.Actor)
	return ToShiftDTO(shift), nil
}

// finalizeShift runs the terminal-transition bookkeeping: compliance
// evaluation and closing metrics.
func (s *ShiftApplicationService) finalizeShift(ctx context.Context, shift *domain.Shift) {
	if s.compliance != nil {
		isCompliant, score := s.compliance.Evaluate(shift)
		shift.SetCompliance(isCompliant, score)
		if !isCompliant {
			shift.AddDomainEvent(&domain.ComplianceViolationEvent{
				ShiftID:     shift.ShiftID,
				WorkerID:    shift.WorkerID,
				Score:       score,
				EvaluatedAt: time.Now().UTC(),
			})
		}
		if err := s.repo.Save(ctx, shift); err != nil {
			s.logger.WithError(err).Error("Failed to save compliance result", "shiftId", shift.ShiftID)
		}
		s.emitAudit(ctx, shift)
	}

	if s.metrics != nil {
		s.metrics.RecordShiftClosed(string(shift.State))
		if shift.Metrics.TotalDuration > 0 {
			s.metrics.ObserveShiftEfficiency(shift.Metrics.Efficiency)
		}
	}
}

// EnterSite opens a site visit. When fences are registered for the site the
// fix must fall inside one of them.
func (s *ShiftApplicationService) EnterSite(ctx context.Context, cmd EnterSiteCommand) (*SiteVisitDTO, error) {
	unlock := s.shiftLocks.lock(cmd.ShiftID)
	defer unlock()

	shift, err := s.loadShift(ctx, cmd.ShiftID)
	if err != nil {
		return nil, err
	}

	if s.geofences != nil {
		fences, fErr := s.geofences.GetGeofencesForSite(ctx, cmd.SiteID)
		if fErr != nil {
			s.logger.WithError(fErr).Warn("Geofence lookup failed", "siteId", cmd.SiteID)
		} else if len(fences) > 0 && !domain.IsWithinAny(cmd.Location, fences) {
			return nil, errors.ErrValidation(fmt.Sprintf("location is outside the geofence for site %s", cmd.SiteID))
		}
	}

	visit, err := shift.EnterSite(cmd.SiteID, cmd.Location, cmd.Planned)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, shift); err != nil {
		s.logger.WithError(err).Error("Failed to save shift", "shiftId", cmd.ShiftID)
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}
	s.emitAudit(ctx, shift)

	s.logger.Info("Site entered", "shiftId", cmd.ShiftID, "siteId", cmd.SiteID, "planned", cmd.Planned)
	dto := ToSiteVisitDTO(*visit)
	return &dto, nil
}

// ExitSite closes the open site visit
func (s *ShiftApplicationService) ExitSite(ctx context.Context, cmd ExitSiteCommand) (*SiteVisitDTO, error) {
	unlock := s.shiftLocks.lock(cmd.ShiftID)
	defer unlock()

	shift, err := s.loadShift(ctx, cmd.ShiftID)
	if err != nil {
		return nil, err
	}

	kind := cmd.EventKind
	if kind == "" {
		kind = domain.VisitEventExit
	}

	visit, err := shift.ExitSite(cmd.Location, kind)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, shift); err != nil {
		s.logger.WithError(err).Error("Failed to save shift", "shiftId", cmd.ShiftID)
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}
	s.emitAudit(ctx, shift)
	if s.metrics != nil {
		s.metrics.RecordSiteVisit(visit.SiteID)
	}

	s.logger.Info("Site exited", "shiftId", cmd.ShiftID, "siteId", visit.SiteID, "timeOnSite", visit.TimeOnSite)
	dto := ToSiteVisitDTO(*visit)
	return &dto, nil
}

// StartBreak opens a break on the shift
func (s *ShiftApplicationService) StartBreak(ctx context.Context, cmd StartBreakCommand) (*BreakPeriodDTO, error) {
	unlock := s.shiftLocks.lock(cmd.ShiftID)
	defer unlock()

	shift, err := s.loadShift(ctx, cmd.ShiftID)
	if err != nil {
		return nil, err
	}

	at := cmd.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	actor := cmd.Actor
	if actor == "" {
		actor = domain.ActorUser
	}

	bp, err := shift.StartBreak(cmd.BreakType, cmd.PlannedDuration, cmd.Authorized, actor, cmd.Location, at)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, shift); err != nil {
		s.logger.WithError(err).Error("Failed to save shift", "shiftId", cmd.ShiftID)
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}
	s.emitAudit(ctx, shift)

	s.logger.Info("Break started", "shiftId", cmd.ShiftID, "breakType", cmd.BreakType, "authorized", bp.IsAuthorized)
	dto := ToBreakPeriodDTO(*bp)
	return &dto, nil
}

// EndBreak closes the open break on the shift
func (s *ShiftApplicationService) EndBreak(ctx context.Context, cmd EndBreakCommand) (*BreakPeriodDTO, error) {
	unlock := s.shiftLocks.lock(cmd.ShiftID)
	defer unlock()

	shift, err := s.loadShift(ctx, cmd.ShiftID)
	if err != nil {
		return nil, err
	}

	at := cmd.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	actor := cmd.Actor
	if actor == "" {
		actor = domain.ActorUser
	}

	bp, err := shift.EndBreak(actor, cmd.Location, at)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, shift); err != nil {
		s.logger.WithError(err).Error("Failed to save shift", "shiftId", cmd.ShiftID)
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}
	s.emitAudit(ctx, shift)
	if s.metrics != nil && bp.EndTime != nil {
		s.metrics.RecordBreak(string(bp.Type))
	}

	s.logger.Info("Break ended", "shiftId", cmd.ShiftID, "breakType", bp.Type, "duration", bp.Duration)
	dto := ToBreakPeriodDTO(*bp)
	return &dto, nil
}

// GetShift retrieves a read-only snapshot of a shift
func (s *ShiftApplicationService) GetShift(ctx context.Context, query GetShiftQuery) (*ShiftDTO, error) {
	shift, err := s.loadShift(ctx, query.ShiftID)
	if err != nil {
		return nil, err
	}
	return ToShiftDTO(shift), nil
}

// GetActiveShift retrieves a worker's current non-terminal shift
func (s *ShiftApplicationService) GetActiveShift(ctx context.Context, query GetActiveShiftQuery) (*ShiftDTO, error) {
	shift, err := s.repo.FindActiveByWorker(ctx, query.WorkerID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get active shift", "workerId", query.WorkerID)
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}
	if shift == nil {
		return nil, errors.ErrNotFound("active shift")
	}
	return ToShiftDTO(shift), nil
}

// ListShifts retrieves a worker's shift history
func (s *ShiftApplicationService) ListShifts(ctx context.Context, query ListShiftsQuery) ([]ShiftDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}

	shifts, err := s.repo.FindByWorker(ctx, query.WorkerID, limit, query.Offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list shifts", "workerId", query.WorkerID)
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	return ToShiftDTOs(shifts), nil
}

// loadShift fetches a shift or returns a not-found error
func (s *ShiftApplicationService) loadShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	shift, err := s.repo.FindByID(ctx, shiftID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get shift", "shiftId", shiftID)
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	if shift == nil {
		return nil, errors.ErrNotFound("shift")
	}
	return shift, nil
}

// emitAudit drains the aggregate's domain events into the audit sink.
// Delivery is fire-and-forget; failures are logged and never propagated.
func (s *ShiftApplicationService) emitAudit(ctx context.Context, shift *domain.Shift) {
	events := shift.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	shift.ClearDomainEvents()

	if s.auditSink == nil {
		return
	}

	for _, event := range events {
		if err := s.auditSink.RecordEvent(ctx, shift.ShiftID, shift.WorkerID, event); err != nil {
			s.logger.WithError(err).Warn("Audit sink rejected event",
				"shiftId", shift.ShiftID, "eventType", event.EventType())
		}
	}
}
