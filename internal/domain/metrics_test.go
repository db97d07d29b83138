package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeMetricsZeroWithoutBounds tests that a shift missing actual
// start or end yields a zeroed snapshot
func TestComputeMetricsZeroWithoutBounds(t *testing.T) {
	shift := newTestShift()
	assert.Equal(t, ShiftMetrics{}, ComputeMetrics(shift))

	start := fixedTime(9, 0)
	shift.ActualStart = &start
	assert.Equal(t, ShiftMetrics{}, ComputeMetrics(shift))
}

// TestComputeMetricsBasic tests duration and efficiency derivation
func TestComputeMetricsBasic(t *testing.T) {
	shift := newTestShift()
	start := fixedTime(9, 2)
	end := fixedTime(17, 0)
	shift.ActualStart = &start
	shift.ActualEnd = &end

	breakEnd := fixedTime(12, 30)
	shift.Breaks = []BreakPeriod{
		{Type: BreakTypeLunch, StartTime: fixedTime(12, 0), EndTime: &breakEnd, Duration: 30, IsAuthorized: true},
	}
	exit := fixedTime(13, 0)
	shift.SiteVisits = []SiteVisit{
		{SiteID: "SITE-A", EnterTime: fixedTime(9, 10), ExitTime: &exit, TimeOnSite: 13500},
	}

	m := ComputeMetrics(shift)
	assert.Equal(t, 478, m.TotalDuration)
	assert.Equal(t, 30, m.BreakTime)
	assert.Equal(t, 448, m.WorkingTime)
	assert.Equal(t, 94, m.Efficiency)
	assert.Equal(t, 225, m.SiteTime)
}

// TestComputeMetricsOpenBreakTreatedAsClosed tests that a break still open at
// computation time is measured to the shift's actual end
func TestComputeMetricsOpenBreakTreatedAsClosed(t *testing.T) {
	shift := newTestShift()
	start := fixedTime(9, 0)
	end := fixedTime(17, 0)
	shift.ActualStart = &start
	shift.ActualEnd = &end
	shift.Breaks = []BreakPeriod{
		{Type: BreakTypeShort, StartTime: fixedTime(16, 30)},
	}

	m := ComputeMetrics(shift)
	assert.Equal(t, 30, m.BreakTime)
	assert.Equal(t, 450, m.WorkingTime)
}

// TestComputeMetricsWorkingTimeFloor tests that working time never goes
// negative when breaks exceed the shift span
func TestComputeMetricsWorkingTimeFloor(t *testing.T) {
	shift := newTestShift()
	start := fixedTime(9, 0)
	end := fixedTime(9, 30)
	shift.ActualStart = &start
	shift.ActualEnd = &end
	breakEnd := fixedTime(10, 0)
	shift.Breaks = []BreakPeriod{
		{Type: BreakTypeShort, StartTime: fixedTime(9, 0), EndTime: &breakEnd, Duration: 60},
	}

	m := ComputeMetrics(shift)
	assert.Equal(t, 30, m.TotalDuration)
	assert.Equal(t, 0, m.WorkingTime)
	assert.Equal(t, 0, m.Efficiency)
}

// TestComputeMetricsZeroDuration tests efficiency when start equals end
func TestComputeMetricsZeroDuration(t *testing.T) {
	shift := newTestShift()
	start := fixedTime(9, 0)
	shift.ActualStart = &start
	shift.ActualEnd = &start

	m := ComputeMetrics(shift)
	assert.Equal(t, 0, m.TotalDuration)
	assert.Equal(t, 0, m.Efficiency)
}

// TestComputeMetricsFloorsPartialMinutes tests whole-minute flooring
func TestComputeMetricsFloorsPartialMinutes(t *testing.T) {
	shift := newTestShift()
	start := fixedTime(9, 0)
	end := start.Add(90*time.Minute + 59*time.Second)
	shift.ActualStart = &start
	shift.ActualEnd = &end

	m := ComputeMetrics(shift)
	require.Equal(t, 90, m.TotalDuration)
}
