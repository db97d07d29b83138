package domain

import "math"

// ShiftMetrics is a derived snapshot of shift performance. It is recomputed
// at terminal transitions and never authoritative on its own.
type ShiftMetrics struct {
	TotalDuration    int     `bson:"totalDuration" json:"totalDuration"` // minutes
	WorkingTime      int     `bson:"workingTime" json:"workingTime"`     // minutes
	BreakTime        int     `bson:"breakTime" json:"breakTime"`         // minutes
	Efficiency       int     `bson:"efficiency" json:"efficiency"`       // percent
	SiteTime         int     `bson:"siteTime" json:"siteTime"`           // minutes
	TasksCompleted   int     `bson:"tasksCompleted" json:"tasksCompleted"`
	TasksTotal       int     `bson:"tasksTotal" json:"tasksTotal"`
	DistanceTraveled float64 `bson:"distanceTraveled,omitempty" json:"distanceTraveled,omitempty"` // meters
}

// ComputeMetrics derives a metrics snapshot from the shift's recorded
// intervals. A shift without both actual start and end (e.g. cancelled before
// it ever started) yields a zeroed snapshot.
func ComputeMetrics(s *Shift) ShiftMetrics {
	if s.ActualStart == nil || s.ActualEnd == nil {
		return ShiftMetrics{}
	}

	totalDuration := int(s.ActualEnd.Sub(*s.ActualStart).Minutes())
	if totalDuration < 0 {
		totalDuration = 0
	}

	breakTime := 0
	for _, b := range s.Breaks {
		if b.EndTime != nil {
			breakTime += b.Duration
			continue
		}
		// A break still open at computation time is treated as closed at the
		// shift's actual end.
		minutes := int(s.ActualEnd.Sub(b.StartTime).Minutes())
		if minutes > 0 {
			breakTime += minutes
		}
	}

	workingTime := totalDuration - breakTime
	if workingTime < 0 {
		workingTime = 0
	}

	efficiency := 0
	if totalDuration > 0 {
		efficiency = int(math.Round(float64(workingTime) / float64(totalDuration) * 100))
	}

	siteSeconds := int64(0)
	for _, v := range s.SiteVisits {
		if v.ExitTime != nil {
			siteSeconds += v.TimeOnSite
		}
	}

	return ShiftMetrics{
		TotalDuration: totalDuration,
		WorkingTime:   workingTime,
		BreakTime:     breakTime,
		Efficiency:    efficiency,
		SiteTime:      int(siteSeconds / 60),
	}
}
