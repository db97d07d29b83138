package cloudevents

import (
	"time"
)

// EventType constants for shift domain events
const (
	// Shift lifecycle events
	ShiftStarted       = "fieldsync.shift.shift-started"
	ShiftTransitioned  = "fieldsync.shift.shift-transitioned"
	TransitionRejected = "fieldsync.shift.transition-rejected"
	ShiftCompleted     = "fieldsync.shift.shift-completed"
	ShiftCancelled     = "fieldsync.shift.shift-cancelled"

	// Site visit events
	SiteEntered = "fieldsync.shift.site-entered"
	SiteExited  = "fieldsync.shift.site-exited"

	// Break events
	BreakStarted = "fieldsync.shift.break-started"
	BreakEnded   = "fieldsync.shift.break-ended"

	// Compliance events
	ComplianceViolation = "fieldsync.shift.compliance-violation"
)

// Source constants for event sources
const (
	SourceShiftService = "/fieldsync/shift-service"
)

// FieldSyncCloudEvent represents a CloudEvents v1.0 compliant event
type FieldSyncCloudEvent struct {
	SpecVersion     string                 `json:"specversion"`
	Type            string                 `json:"type"`
	Source          string                 `json:"source"`
	Subject         string                 `json:"subject,omitempty"`
	ID              string                 `json:"id"`
	Time            time.Time              `json:"time"`
	DataContentType string                 `json:"datacontenttype"`
	Data            interface{}            `json:"data"`
	Extensions      map[string]interface{} `json:"-"`

	// FieldSync-specific extensions
	CorrelationID string `json:"fscorrelationid,omitempty"`
	WorkerID      string `json:"fsworkerid,omitempty"`
	SiteID        string `json:"fssiteid,omitempty"`
}

// ShiftStartedData represents the data payload for ShiftStarted event
type ShiftStartedData struct {
	ShiftID        string    `json:"shiftId"`
	WorkerID       string    `json:"workerId"`
	SiteID         string    `json:"siteId"`
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
}

// ShiftTransitionedData represents the data payload for accepted transitions
type ShiftTransitionedData struct {
	ShiftID   string    `json:"shiftId"`
	WorkerID  string    `json:"workerId"`
	FromState string    `json:"fromState"`
	ToState   string    `json:"toState"`
	Actor     string    `json:"actor"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// TransitionRejectedData represents the data payload for rejected transitions
type TransitionRejectedData struct {
	ShiftID          string    `json:"shiftId"`
	WorkerID         string    `json:"workerId"`
	FromState        string    `json:"fromState"`
	ToState          string    `json:"toState"`
	Actor            string    `json:"actor"`
	ValidationErrors []string  `json:"validationErrors"`
	At               time.Time `json:"at"`
}

// SiteVisitData represents the data payload for site entry/exit events
type SiteVisitData struct {
	ShiftID    string    `json:"shiftId"`
	WorkerID   string    `json:"workerId"`
	SiteID     string    `json:"siteId"`
	At         time.Time `json:"at"`
	TimeOnSite int64     `json:"timeOnSiteSeconds,omitempty"`
}

// BreakData represents the data payload for break events
type BreakData struct {
	ShiftID    string    `json:"shiftId"`
	WorkerID   string    `json:"workerId"`
	BreakType  string    `json:"breakType"`
	Authorized bool      `json:"authorized"`
	At         time.Time `json:"at"`
	Duration   int       `json:"durationMinutes,omitempty"`
}

// ShiftClosedData represents the data payload for terminal shift events
type ShiftClosedData struct {
	ShiftID       string `json:"shiftId"`
	WorkerID      string `json:"workerId"`
	FinalState    string `json:"finalState"`
	TotalDuration int    `json:"totalDurationMinutes"`
	BreakTime     int    `json:"breakTimeMinutes"`
	WorkingTime   int    `json:"workingTimeMinutes"`
	Efficiency    int    `json:"efficiencyPercent"`
	SiteTime      int    `json:"siteTimeMinutes"`
}

// ComplianceViolationData represents the data payload for compliance findings
type ComplianceViolationData struct {
	ShiftID    string    `json:"shiftId"`
	WorkerID   string    `json:"workerId"`
	Score      float64   `json:"score"`
	Violations []string  `json:"violations,omitempty"`
	At         time.Time `json:"at"`
}
