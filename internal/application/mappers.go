package application

import "github.com/facilitymanager1/fieldsync-sub006/internal/domain"

// ToShiftDTO converts a domain Shift to ShiftDTO
func ToShiftDTO(shift *domain.Shift) *ShiftDTO {
	if shift == nil {
		return nil
	}

	history := make([]StateTransitionDTO, 0, len(shift.StateHistory))
	for _, t := range shift.StateHistory {
		history = append(history, ToStateTransitionDTO(t))
	}

	visits := make([]SiteVisitDTO, 0, len(shift.SiteVisits))
	for _, v := range shift.SiteVisits {
		visits = append(visits, ToSiteVisitDTO(v))
	}

	breaks := make([]BreakPeriodDTO, 0, len(shift.Breaks))
	for _, b := range shift.Breaks {
		breaks = append(breaks, ToBreakPeriodDTO(b))
	}

	return &ShiftDTO{
		ShiftID:         shift.ShiftID,
		WorkerID:        shift.WorkerID,
		SiteID:          shift.SiteID,
		State:           string(shift.State),
		PreviousState:   string(shift.PreviousState),
		ScheduledStart:  shift.ScheduledStart,
		ScheduledEnd:    shift.ScheduledEnd,
		ActualStart:     shift.ActualStart,
		ActualEnd:       shift.ActualEnd,
		StateHistory:    history,
		SiteVisits:      visits,
		Breaks:          breaks,
		Metrics:         ToShiftMetricsDTO(shift.Metrics),
		ComplianceScore: shift.ComplianceScore,
		IsCompliant:     shift.IsCompliant,
		CreatedAt:       shift.CreatedAt,
		UpdatedAt:       shift.UpdatedAt,
	}
}

// ToStateTransitionDTO converts a domain StateTransition to its DTO
func ToStateTransitionDTO(t domain.StateTransition) StateTransitionDTO {
	return StateTransitionDTO{
		From:             string(t.From),
		To:               string(t.To),
		Timestamp:        t.Timestamp,
		Actor:            string(t.Actor),
		Reason:           t.Reason,
		Location:         ToLocationDTOPtr(t.Location),
		IsValid:          t.IsValid,
		ValidationErrors: t.ValidationErrors,
	}
}

// ToLocationDTO converts a domain Location to LocationDTO
func ToLocationDTO(l domain.Location) LocationDTO {
	return LocationDTO{
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		Accuracy:      l.Accuracy,
		AccuracyLevel: string(l.AccuracyLevel()),
		Timestamp:     l.Timestamp,
		Source:        string(l.Source),
	}
}

// ToLocationDTOPtr converts an optional domain Location to an optional DTO
func ToLocationDTOPtr(l *domain.Location) *LocationDTO {
	if l == nil {
		return nil
	}
	dto := ToLocationDTO(*l)
	return &dto
}

// ToSiteVisitDTO converts a domain SiteVisit to SiteVisitDTO
func ToSiteVisitDTO(v domain.SiteVisit) SiteVisitDTO {
	return SiteVisitDTO{
		SiteID:        v.SiteID,
		EnterTime:     v.EnterTime,
		ExitTime:      v.ExitTime,
		TimeOnSite:    v.TimeOnSite,
		EventKind:     string(v.EventKind),
		EnterLocation: ToLocationDTO(v.EnterLocation),
		ExitLocation:  ToLocationDTOPtr(v.ExitLocation),
		Planned:       v.Planned,
	}
}

// ToBreakPeriodDTO converts a domain BreakPeriod to BreakPeriodDTO
func ToBreakPeriodDTO(b domain.BreakPeriod) BreakPeriodDTO {
	return BreakPeriodDTO{
		Type:            string(b.Type),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Duration:        b.Duration,
		PlannedDuration: b.PlannedDuration,
		IsAuthorized:    b.IsAuthorized,
		Location:        ToLocationDTOPtr(b.Location),
	}
}

// ToShiftMetricsDTO converts a domain ShiftMetrics to ShiftMetricsDTO
func ToShiftMetricsDTO(m domain.ShiftMetrics) ShiftMetricsDTO {
	return ShiftMetricsDTO{
		TotalDuration:    m.TotalDuration,
		WorkingTime:      m.WorkingTime,
		BreakTime:        m.BreakTime,
		Efficiency:       m.Efficiency,
		SiteTime:         m.SiteTime,
		TasksCompleted:   m.TasksCompleted,
		TasksTotal:       m.TasksTotal,
		DistanceTraveled: m.DistanceTraveled,
	}
}

// ToShiftDTOs converts a slice of domain Shifts to ShiftDTOs
func ToShiftDTOs(shifts []*domain.Shift) []ShiftDTO {
	dtos := make([]ShiftDTO, 0, len(shifts))
	for _, shift := range shifts {
		if dto := ToShiftDTO(shift); dto != nil {
			dtos = append(dtos, *dto)
		}
	}
	return dtos
}
