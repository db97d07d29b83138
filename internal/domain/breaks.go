package domain

import (
	"fmt"
	"time"
)

// BreakType classifies a break interval
type BreakType string

const (
	BreakTypeLunch        BreakType = "lunch"
	BreakTypeShort        BreakType = "short"
	BreakTypeEmergency    BreakType = "emergency"
	BreakTypeAuthorized   BreakType = "authorized"
	BreakTypeUnauthorized BreakType = "unauthorized"
)

// DefaultAuthorization returns the default isAuthorized flag for a break type
func DefaultAuthorization(breakType BreakType) bool {
	return breakType != BreakTypeUnauthorized && breakType != BreakTypeEmergency
}

// BreakPeriod is one contiguous break interval within a shift
type BreakPeriod struct {
	Type            BreakType  `bson:"type" json:"type"`
	StartTime       time.Time  `bson:"startTime" json:"startTime"`
	EndTime         *time.Time `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Duration        int        `bson:"duration" json:"duration"` // whole minutes
	PlannedDuration int        `bson:"plannedDuration,omitempty" json:"plannedDuration,omitempty"`
	IsAuthorized    bool       `bson:"isAuthorized" json:"isAuthorized"`
	Location        *Location  `bson:"location,omitempty" json:"location,omitempty"`
}

// IsOpen reports whether the break has no recorded end yet
func (b *BreakPeriod) IsOpen() bool {
	return b.EndTime == nil
}

// openBreak returns the currently open break, or nil
func (s *Shift) openBreak() *BreakPeriod {
	for i := range s.Breaks {
		if s.Breaks[i].IsOpen() {
			return &s.Breaks[i]
		}
	}
	return nil
}

// lastBreak returns the most recently appended break, or nil
func (s *Shift) lastBreak() *BreakPeriod {
	if len(s.Breaks) == 0 {
		return nil
	}
	return &s.Breaks[len(s.Breaks)-1]
}

// appendBreak opens a new break interval
func (s *Shift) appendBreak(breakType BreakType, location *Location, at time.Time) *BreakPeriod {
	s.Breaks = append(s.Breaks, BreakPeriod{
		Type:         breakType,
		StartTime:    at,
		IsAuthorized: DefaultAuthorization(breakType),
		Location:     location,
	})
	return &s.Breaks[len(s.Breaks)-1]
}

// closeOpenBreak closes the open break, if any, clamping negative durations
// to zero. Emits a BreakEndedEvent when a break is actually closed.
func (s *Shift) closeOpenBreak(actor Actor, at time.Time) *BreakPeriod {
	open := s.openBreak()
	if open == nil {
		return nil
	}

	end := at
	open.EndTime = &end
	minutes := int(at.Sub(open.StartTime).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	open.Duration = minutes

	s.AddDomainEvent(&BreakEndedEvent{
		ShiftID:   s.ShiftID,
		WorkerID:  s.WorkerID,
		BreakType: open.Type,
		Duration:  open.Duration,
		Actor:     actor,
		EndedAt:   at,
	})

	return open
}

// StartBreak transitions the shift to OnBreak and opens a break of the given
// type. The authorized flag defaults per break type unless overridden.
func (s *Shift) StartBreak(breakType BreakType, plannedDuration int, authorized *bool, actor Actor, location *Location, at time.Time) (*BreakPeriod, error) {
	if s.State.IsTerminal() {
		return nil, fmt.Errorf("%w: %s", ErrTerminalState, s.State)
	}
	if s.openBreak() != nil {
		return nil, ErrBreakAlreadyOpen
	}

	if err := s.RequestTransition(StateOnBreak, actor, "break started: "+string(breakType), location, at); err != nil {
		return nil, err
	}

	open := s.openBreak()
	open.Type = breakType
	open.PlannedDuration = plannedDuration
	if authorized != nil {
		open.IsAuthorized = *authorized
	} else {
		open.IsAuthorized = DefaultAuthorization(breakType)
	}

	s.AddDomainEvent(&BreakStartedEvent{
		ShiftID:      s.ShiftID,
		WorkerID:     s.WorkerID,
		BreakType:    open.Type,
		IsAuthorized: open.IsAuthorized,
		Actor:        actor,
		StartedAt:    at,
	})

	return open, nil
}

// EndBreak transitions the shift back to InShift and closes the open break.
// Repeating an identical close of an already-closed break is a no-op success
// to tolerate at-least-once delivery from mobile clients.
func (s *Shift) EndBreak(actor Actor, location *Location, at time.Time) (*BreakPeriod, error) {
	open := s.openBreak()
	if open == nil {
		if last := s.lastBreak(); last != nil && last.EndTime != nil && last.EndTime.Equal(at) {
			return last, nil
		}
		return nil, ErrNoOpenBreak
	}

	if at.Before(open.StartTime) {
		return nil, fmt.Errorf("%w: break end %s precedes break start %s", ErrNonMonotonicTimestamp,
			at.Format(time.RFC3339), open.StartTime.Format(time.RFC3339))
	}

	if err := s.RequestTransition(StateInShift, actor, "break ended", location, at); err != nil {
		return nil, err
	}

	return s.lastBreak(), nil
}
