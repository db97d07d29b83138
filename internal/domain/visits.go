package domain

import (
	"fmt"
	"time"
)

// VisitEventKind identifies what triggered a visit boundary
type VisitEventKind string

const (
	VisitEventEnter         VisitEventKind = "enter"
	VisitEventExit          VisitEventKind = "exit"
	VisitEventEmergencyExit VisitEventKind = "emergency_exit"
	VisitEventTimeoutExit   VisitEventKind = "timeout_exit"
)

// SiteVisit is one contiguous interval of presence at a site
type SiteVisit struct {
	SiteID        string         `bson:"siteId" json:"siteId"`
	EnterTime     time.Time      `bson:"enterTime" json:"enterTime"`
	ExitTime      *time.Time     `bson:"exitTime,omitempty" json:"exitTime,omitempty"`
	TimeOnSite    int64          `bson:"timeOnSite" json:"timeOnSite"` // seconds, computed at close
	EventKind     VisitEventKind `bson:"eventKind" json:"eventKind"`
	EnterLocation Location       `bson:"enterLocation" json:"enterLocation"`
	ExitLocation  *Location      `bson:"exitLocation,omitempty" json:"exitLocation,omitempty"`
	Planned       bool           `bson:"planned" json:"planned"`
}

// IsOpen reports whether the visit has no recorded exit yet
func (v *SiteVisit) IsOpen() bool {
	return v.ExitTime == nil
}

// openVisit returns the currently open site visit, or nil
func (s *Shift) openVisit() *SiteVisit {
	for i := range s.SiteVisits {
		if s.SiteVisits[i].IsOpen() {
			return &s.SiteVisits[i]
		}
	}
	return nil
}

// lastVisit returns the most recently appended visit, or nil
func (s *Shift) lastVisit() *SiteVisit {
	if len(s.SiteVisits) == 0 {
		return nil
	}
	return &s.SiteVisits[len(s.SiteVisits)-1]
}

// EnterSite opens a new site visit. At most one visit may be open at a time,
// and an enter fix must not precede the previous visit's exit.
func (s *Shift) EnterSite(siteID string, location Location, planned bool) (*SiteVisit, error) {
	if s.State.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrTerminalState, s.State)
	}
	if open := s.openVisit(); open != nil {
		return nil, fmt.Errorf("%w for site %s", ErrVisitAlreadyOpen, open.SiteID)
	}
	if last := s.lastVisit(); last != nil && last.ExitTime != nil && location.Timestamp.Before(*last.ExitTime) {
		return nil, fmt.Errorf("%w: enter timestamp %s precedes previous exit %s", ErrNonMonotonicTimestamp,
			location.Timestamp.Format(time.RFC3339), last.ExitTime.Format(time.RFC3339))
	}

	s.SiteVisits = append(s.SiteVisits, SiteVisit{
		SiteID:        siteID,
		EnterTime:     location.Timestamp,
		EventKind:     VisitEventEnter,
		EnterLocation: location,
		Planned:       planned,
	})
	s.UpdatedAt = location.Timestamp

	s.AddDomainEvent(&SiteEnteredEvent{
		ShiftID:   s.ShiftID,
		WorkerID:  s.WorkerID,
		SiteID:    siteID,
		Planned:   planned,
		EnteredAt: location.Timestamp,
	})

	return s.lastVisit(), nil
}

// ExitSite closes the open site visit and computes the accumulated time on
// site in seconds. Repeating an identical close of an already-closed visit is
// a no-op success.
func (s *Shift) ExitSite(location Location, kind VisitEventKind) (*SiteVisit, error) {
	if s.State.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrTerminalState, s.State)
	}

	open := s.openVisit()
	if open == nil {
		if last := s.lastVisit(); last != nil && last.ExitTime != nil && last.ExitTime.Equal(location.Timestamp) {
			return last, nil
		}
		return nil, ErrNoOpenVisit
	}

	if location.Timestamp.Before(open.EnterTime) {
		return nil, fmt.Errorf("%w: exit timestamp %s precedes enter timestamp %s", ErrNonMonotonicTimestamp,
			location.Timestamp.Format(time.RFC3339), open.EnterTime.Format(time.RFC3339))
	}

	exit := location.Timestamp
	open.ExitTime = &exit
	open.TimeOnSite = int64(exit.Sub(open.EnterTime).Seconds())
	open.EventKind = kind
	loc := location
	open.ExitLocation = &loc
	s.UpdatedAt = exit

	s.AddDomainEvent(&SiteExitedEvent{
		ShiftID:    s.ShiftID,
		WorkerID:   s.WorkerID,
		SiteID:     open.SiteID,
		EventKind:  kind,
		TimeOnSite: open.TimeOnSite,
		ExitedAt:   exit,
	})

	return open, nil
}

// closeOpenVisit closes the open visit, if any, on the shift's behalf. Used
// when the shift reaches a terminal state with a visit still open.
func (s *Shift) closeOpenVisit(kind VisitEventKind, at time.Time) *SiteVisit {
	open := s.openVisit()
	if open == nil {
		return nil
	}

	exit := at
	if exit.Before(open.EnterTime) {
		exit = open.EnterTime
	}
	open.ExitTime = &exit
	open.TimeOnSite = int64(exit.Sub(open.EnterTime).Seconds())
	open.EventKind = kind

	s.AddDomainEvent(&SiteExitedEvent{
		ShiftID:    s.ShiftID,
		WorkerID:   s.WorkerID,
		SiteID:     open.SiteID,
		EventKind:  kind,
		TimeOnSite: open.TimeOnSite,
		ExitedAt:   exit,
	})

	return open
}
