package application

import "time"

// ShiftDTO represents a shift in responses
type ShiftDTO struct {
	ShiftID         string               `json:"shiftId"`
	WorkerID        string               `json:"workerId"`
	SiteID          string               `json:"siteId,omitempty"`
	State           string               `json:"state"`
	PreviousState   string               `json:"previousState,omitempty"`
	ScheduledStart  time.Time            `json:"scheduledStart"`
	ScheduledEnd    time.Time            `json:"scheduledEnd"`
	ActualStart     *time.Time           `json:"actualStart,omitempty"`
	ActualEnd       *time.Time           `json:"actualEnd,omitempty"`
	StateHistory    []StateTransitionDTO `json:"stateHistory"`
	SiteVisits      []SiteVisitDTO       `json:"siteVisits"`
	Breaks          []BreakPeriodDTO     `json:"breaks"`
	Metrics         ShiftMetricsDTO      `json:"metrics"`
	ComplianceScore float64              `json:"complianceScore"`
	IsCompliant     bool                 `json:"isCompliant"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// StateTransitionDTO represents one transition attempt
type StateTransitionDTO struct {
	From             string       `json:"from"`
	To               string       `json:"to"`
	Timestamp        time.Time    `json:"timestamp"`
	Actor            string       `json:"actor"`
	Reason           string       `json:"reason,omitempty"`
	Location         *LocationDTO `json:"location,omitempty"`
	IsValid          bool         `json:"isValid"`
	ValidationErrors []string     `json:"validationErrors,omitempty"`
}

// LocationDTO represents a GPS fix
type LocationDTO struct {
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Accuracy      float64   `json:"accuracy"`
	AccuracyLevel string    `json:"accuracyLevel"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source"`
}

// SiteVisitDTO represents a site visit interval
type SiteVisitDTO struct {
	SiteID        string       `json:"siteId"`
	EnterTime     time.Time    `json:"enterTime"`
	ExitTime      *time.Time   `json:"exitTime,omitempty"`
	TimeOnSite    int64        `json:"timeOnSite"`
	EventKind     string       `json:"eventKind"`
	EnterLocation LocationDTO  `json:"enterLocation"`
	ExitLocation  *LocationDTO `json:"exitLocation,omitempty"`
	Planned       bool         `json:"planned"`
}

// BreakPeriodDTO represents a break interval
type BreakPeriodDTO struct {
	Type            string       `json:"type"`
	StartTime       time.Time    `json:"startTime"`
	EndTime         *time.Time   `json:"endTime,omitempty"`
	Duration        int          `json:"duration"`
	PlannedDuration int          `json:"plannedDuration,omitempty"`
	IsAuthorized    bool         `json:"isAuthorized"`
	Location        *LocationDTO `json:"location,omitempty"`
}

// ShiftMetricsDTO represents the derived metrics snapshot
type ShiftMetricsDTO struct {
	TotalDuration    int     `json:"totalDuration"`
	WorkingTime      int     `json:"workingTime"`
	BreakTime        int     `json:"breakTime"`
	Efficiency       int     `json:"efficiency"`
	SiteTime         int     `json:"siteTime"`
	TasksCompleted   int     `json:"tasksCompleted"`
	TasksTotal       int     `json:"tasksTotal"`
	DistanceTraveled float64 `json:"distanceTraveled,omitempty"`
}
