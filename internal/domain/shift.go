package domain

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrTerminalState         = errors.New("shift is in a terminal state")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrVisitAlreadyOpen      = errors.New("site visit already open")
	ErrNoOpenVisit           = errors.New("no open visit")
	ErrBreakAlreadyOpen      = errors.New("break already open")
	ErrNoOpenBreak           = errors.New("no open break")
	ErrNonMonotonicTimestamp = errors.New("timestamp precedes last recorded event")
)

// StateTransition is an immutable record of one transition attempt. Rejected
// attempts are recorded with IsValid=false so the history doubles as an audit
// trail of what was tried, not just what succeeded.
type StateTransition struct {
	From             ShiftState `bson:"from" json:"from"`
	To               ShiftState `bson:"to" json:"to"`
	Timestamp        time.Time  `bson:"timestamp" json:"timestamp"`
	Actor            Actor      `bson:"actor" json:"actor"`
	Reason           string     `bson:"reason,omitempty" json:"reason,omitempty"`
	Location         *Location  `bson:"location,omitempty" json:"location,omitempty"`
	IsValid          bool       `bson:"isValid" json:"isValid"`
	ValidationErrors []string   `bson:"validationErrors,omitempty" json:"validationErrors,omitempty"`
}

// Shift is the aggregate root for one worker's work period
type Shift struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ShiftID         string             `bson:"shiftId" json:"shiftId"`
	WorkerID        string             `bson:"workerId" json:"workerId"`
	SiteID          string             `bson:"siteId,omitempty" json:"siteId,omitempty"`
	State           ShiftState         `bson:"state" json:"state"`
	PreviousState   ShiftState         `bson:"previousState,omitempty" json:"previousState,omitempty"`
	ScheduledStart  time.Time          `bson:"scheduledStart" json:"scheduledStart"`
	ScheduledEnd    time.Time          `bson:"scheduledEnd" json:"scheduledEnd"`
	ActualStart     *time.Time         `bson:"actualStart,omitempty" json:"actualStart,omitempty"`
	ActualEnd       *time.Time         `bson:"actualEnd,omitempty" json:"actualEnd,omitempty"`
	StateHistory    []StateTransition  `bson:"stateHistory" json:"stateHistory"`
	SiteVisits      []SiteVisit        `bson:"siteVisits" json:"siteVisits"`
	Breaks          []BreakPeriod      `bson:"breaks" json:"breaks"`
	Metrics         ShiftMetrics       `bson:"metrics" json:"metrics"`
	ComplianceScore float64            `bson:"complianceScore" json:"complianceScore"`
	IsCompliant     bool               `bson:"isCompliant" json:"isCompliant"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
	DomainEvents    []DomainEvent      `bson:"-" json:"-"`
}

// NewShift creates a new Shift aggregate in the Idle state
func NewShift(shiftID, workerID, siteID string, scheduledStart, scheduledEnd time.Time) *Shift {
	now := time.Now().UTC()
	shift := &Shift{
		ShiftID:        shiftID,
		WorkerID:       workerID,
		SiteID:         siteID,
		State:          StateIdle,
		ScheduledStart: scheduledStart,
		ScheduledEnd:   scheduledEnd,
		StateHistory:   make([]StateTransition, 0),
		SiteVisits:     make([]SiteVisit, 0),
		Breaks:         make([]BreakPeriod, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
		DomainEvents:   make([]DomainEvent, 0),
	}

	shift.AddDomainEvent(&ShiftStartedEvent{
		ShiftID:        shiftID,
		WorkerID:       workerID,
		SiteID:         siteID,
		ScheduledStart: scheduledStart,
		ScheduledEnd:   scheduledEnd,
		StartedAt:      now,
	})

	return shift
}

// IsActive reports whether the shift is in a non-terminal state
func (s *Shift) IsActive() bool {
	return !s.State.IsTerminal()
}

// RequestTransition validates and applies a state transition. A rejected
// transition from a non-terminal state still appends a failed StateTransition
// record; a terminal shift is immutable and rejects without recording.
func (s *Shift) RequestTransition(to ShiftState, actor Actor, reason string, location *Location, at time.Time) error {
	if s.State.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrTerminalState, s.State)
	}

	if !s.State.CanTransitionTo(to) {
		rejErr := fmt.Errorf("%w from %s to %s", ErrInvalidTransition, s.State, to)
		rejection := rejErr.Error()
		s.StateHistory = append(s.StateHistory, StateTransition{
			From:             s.State,
			To:               to,
			Timestamp:        at,
			Actor:            actor,
			Reason:           reason,
			Location:         location,
			IsValid:          false,
			ValidationErrors: []string{rejection},
		})
		s.UpdatedAt = at

		s.AddDomainEvent(&TransitionRejectedEvent{
			ShiftID:    s.ShiftID,
			WorkerID:   s.WorkerID,
			From:       s.State,
			To:         to,
			Actor:      actor,
			Errors:     []string{rejection},
			RejectedAt: at,
		})

		return rejErr
	}

	from := s.State
	s.StateHistory = append(s.StateHistory, StateTransition{
		From:      from,
		To:        to,
		Timestamp: at,
		Actor:     actor,
		Reason:    reason,
		Location:  location,
		IsValid:   true,
	})
	s.PreviousState = from
	s.State = to
	s.UpdatedAt = at

	s.applyEntryActions(from, to, actor, location, at)

	s.AddDomainEvent(&ShiftTransitionedEvent{
		ShiftID:        s.ShiftID,
		WorkerID:       s.WorkerID,
		From:           from,
		To:             to,
		Actor:          actor,
		Reason:         reason,
		TransitionedAt: at,
	})

	if to.IsTerminal() {
		s.AddDomainEvent(&ShiftClosedEvent{
			ShiftID:     s.ShiftID,
			WorkerID:    s.WorkerID,
			State:       to,
			ActualStart: s.ActualStart,
			ActualEnd:   s.ActualEnd,
			Metrics:     s.Metrics,
			ClosedAt:    at,
		})
	}

	return nil
}

// applyEntryActions runs the side effects attached to entering a state
func (s *Shift) applyEntryActions(from, to ShiftState, actor Actor, location *Location, at time.Time) {
	switch {
	case to == StateInShift:
		if s.ActualStart == nil {
			start := at
			s.ActualStart = &start
		}
		if from == StateOnBreak {
			s.closeOpenBreak(actor, at)
		}

	case to == StateOnBreak:
		if s.openBreak() == nil {
			s.appendBreak(BreakTypeShort, location, at)
		}

	case to.IsTerminal():
		// Dangling intervals are closed on the shift's behalf before the
		// aggregate freezes.
		s.closeOpenBreak(ActorSystem, at)
		s.closeOpenVisit(VisitEventTimeoutExit, at)
		if s.ActualEnd == nil {
			end := at
			s.ActualEnd = &end
		}
		s.Metrics = ComputeMetrics(s)
	}
}

// SetCompliance stores the result of an external compliance evaluation
func (s *Shift) SetCompliance(isCompliant bool, score float64) {
	s.IsCompliant = isCompliant
	s.ComplianceScore = score
}

// AddDomainEvent adds a domain event
func (s *Shift) AddDomainEvent(event DomainEvent) {
	s.DomainEvents = append(s.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (s *Shift) ClearDomainEvents() {
	s.DomainEvents = make([]DomainEvent, 0)
}

// GetDomainEvents returns all domain events
func (s *Shift) GetDomainEvents() []DomainEvent {
	return s.DomainEvents
}
