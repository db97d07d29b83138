package domain

import "time"

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// ShiftStartedEvent is published when a shift session is created
type ShiftStartedEvent struct {
	ShiftID        string    `json:"shiftId"`
	WorkerID       string    `json:"workerId"`
	SiteID         string    `json:"siteId,omitempty"`
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
	StartedAt      time.Time `json:"startedAt"`
}

func (e *ShiftStartedEvent) EventType() string     { return "fieldsync.shift.shift-started" }
func (e *ShiftStartedEvent) OccurredAt() time.Time { return e.StartedAt }

// ShiftTransitionedEvent is published for every accepted state transition
type ShiftTransitionedEvent struct {
	ShiftID        string     `json:"shiftId"`
	WorkerID       string     `json:"workerId"`
	From           ShiftState `json:"from"`
	To             ShiftState `json:"to"`
	Actor          Actor      `json:"actor"`
	Reason         string     `json:"reason,omitempty"`
	TransitionedAt time.Time  `json:"transitionedAt"`
}

func (e *ShiftTransitionedEvent) EventType() string     { return "fieldsync.shift.shift-transitioned" }
func (e *ShiftTransitionedEvent) OccurredAt() time.Time { return e.TransitionedAt }

// TransitionRejectedEvent is published for every rejected transition attempt
type TransitionRejectedEvent struct {
	ShiftID    string     `json:"shiftId"`
	WorkerID   string     `json:"workerId"`
	From       ShiftState `json:"from"`
	To         ShiftState `json:"to"`
	Actor      Actor      `json:"actor"`
	Errors     []string   `json:"errors"`
	RejectedAt time.Time  `json:"rejectedAt"`
}

func (e *TransitionRejectedEvent) EventType() string     { return "fieldsync.shift.transition-rejected" }
func (e *TransitionRejectedEvent) OccurredAt() time.Time { return e.RejectedAt }

// SiteEnteredEvent is published when a site visit opens
type SiteEnteredEvent struct {
	ShiftID   string    `json:"shiftId"`
	WorkerID  string    `json:"workerId"`
	SiteID    string    `json:"siteId"`
	Planned   bool      `json:"planned"`
	EnteredAt time.Time `json:"enteredAt"`
}

func (e *SiteEnteredEvent) EventType() string     { return "fieldsync.shift.site-entered" }
func (e *SiteEnteredEvent) OccurredAt() time.Time { return e.EnteredAt }

// SiteExitedEvent is published when a site visit closes
type SiteExitedEvent struct {
	ShiftID    string         `json:"shiftId"`
	WorkerID   string         `json:"workerId"`
	SiteID     string         `json:"siteId"`
	EventKind  VisitEventKind `json:"eventKind"`
	TimeOnSite int64          `json:"timeOnSite"` // seconds
	ExitedAt   time.Time      `json:"exitedAt"`
}

func (e *SiteExitedEvent) EventType() string     { return "fieldsync.shift.site-exited" }
func (e *SiteExitedEvent) OccurredAt() time.Time { return e.ExitedAt }

// BreakStartedEvent is published when a break opens
type BreakStartedEvent struct {
	ShiftID      string    `json:"shiftId"`
	WorkerID     string    `json:"workerId"`
	BreakType    BreakType `json:"breakType"`
	IsAuthorized bool      `json:"isAuthorized"`
	Actor        Actor     `json:"actor"`
	StartedAt    time.Time `json:"startedAt"`
}

func (e *BreakStartedEvent) EventType() string     { return "fieldsync.shift.break-started" }
func (e *BreakStartedEvent) OccurredAt() time.Time { return e.StartedAt }

// BreakEndedEvent is published when a break closes
type BreakEndedEvent struct {
	ShiftID   string    `json:"shiftId"`
	WorkerID  string    `json:"workerId"`
	BreakType BreakType `json:"breakType"`
	Duration  int       `json:"duration"` // minutes
	Actor     Actor     `json:"actor"`
	EndedAt   time.Time `json:"endedAt"`
}

func (e *BreakEndedEvent) EventType() string     { return "fieldsync.shift.break-ended" }
func (e *BreakEndedEvent) OccurredAt() time.Time { return e.EndedAt }

// ShiftClosedEvent is published when a shift reaches a terminal state
type ShiftClosedEvent struct {
	ShiftID     string       `json:"shiftId"`
	WorkerID    string       `json:"workerId"`
	State       ShiftState   `json:"state"`
	ActualStart *time.Time   `json:"actualStart,omitempty"`
	ActualEnd   *time.Time   `json:"actualEnd,omitempty"`
	Metrics     ShiftMetrics `json:"metrics"`
	ClosedAt    time.Time    `json:"closedAt"`
}

func (e *ShiftClosedEvent) EventType() string {
	if e.State == StateCancelled {
		return "fieldsync.shift.shift-cancelled"
	}
	return "fieldsync.shift.shift-completed"
}
func (e *ShiftClosedEvent) OccurredAt() time.Time { return e.ClosedAt }

// ComplianceViolationEvent is published when a terminal compliance
// evaluation flags a shift
type ComplianceViolationEvent struct {
	ShiftID     string    `json:"shiftId"`
	WorkerID    string    `json:"workerId"`
	Score       float64   `json:"score"`
	Violations  []string  `json:"violations,omitempty"`
	EvaluatedAt time.Time `json:"evaluatedAt"`
}

func (e *ComplianceViolationEvent) EventType() string     { return "fieldsync.shift.compliance-violation" }
func (e *ComplianceViolationEvent) OccurredAt() time.Time { return e.EvaluatedAt }
