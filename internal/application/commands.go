package application

import (
	"time"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
)

// StartShiftCommand creates a new shift session for a worker
type StartShiftCommand struct {
	WorkerID       string
	SiteID         string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
}

// RequestTransitionCommand requests a state transition on a shift
type RequestTransitionCommand struct {
	ShiftID  string
	ToState  domain.ShiftState
	Actor    domain.Actor
	Reason   string
	Location *domain.Location
	At       time.Time
}

// EnterSiteCommand opens a site visit
type EnterSiteCommand struct {
	ShiftID  string
	SiteID   string
	Location domain.Location
	Planned  bool
}

// ExitSiteCommand closes the open site visit
type ExitSiteCommand struct {
	ShiftID   string
	Location  domain.Location
	EventKind domain.VisitEventKind
}

// StartBreakCommand opens a break
type StartBreakCommand struct {
	ShiftID         string
	BreakType       domain.BreakType
	PlannedDuration int
	Authorized      *bool
	Actor           domain.Actor
	Location        *domain.Location
	At              time.Time
}

// EndBreakCommand closes the open break
type EndBreakCommand struct {
	ShiftID  string
	Actor    domain.Actor
	Location *domain.Location
	At       time.Time
}

// GetShiftQuery retrieves a shift by ID
type GetShiftQuery struct {
	ShiftID string
}

// GetActiveShiftQuery retrieves a worker's active shift
type GetActiveShiftQuery struct {
	WorkerID string
}

// ListShiftsQuery retrieves a worker's shift history
type ListShiftsQuery struct {
	WorkerID string
	Limit    int
	Offset   int
}
