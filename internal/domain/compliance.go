package domain

// StandardCompliancePolicy scores a closed shift on its recorded behavior.
// Unauthorized breaks, rejected transition attempts, and very low efficiency
// each cost points; a shift below the threshold is flagged non-compliant.
type StandardCompliancePolicy struct {
	Threshold float64
}

// NewStandardCompliancePolicy returns a policy with the default threshold
func NewStandardCompliancePolicy() *StandardCompliancePolicy {
	return &StandardCompliancePolicy{Threshold: 70}
}

// Evaluate implements CompliancePolicy
func (p *StandardCompliancePolicy) Evaluate(shift *Shift) (bool, float64) {
	score := 100.0

	for _, b := range shift.Breaks {
		if !b.IsAuthorized {
			score -= 10
		}
	}

	for _, t := range shift.StateHistory {
		if !t.IsValid {
			score -= 5
		}
	}

	if shift.Metrics.TotalDuration > 0 && shift.Metrics.Efficiency < 50 {
		score -= 20
	}

	if score < 0 {
		score = 0
	}

	return score >= p.Threshold, score
}
