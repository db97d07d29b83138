package domain

import "context"

// ShiftRepository defines the interface for shift persistence
type ShiftRepository interface {
	Save(ctx context.Context, shift *Shift) error
	FindByID(ctx context.Context, shiftID string) (*Shift, error)
	FindActiveByWorker(ctx context.Context, workerID string) (*Shift, error)
	FindByWorker(ctx context.Context, workerID string, limit, offset int) ([]*Shift, error)
	FindByState(ctx context.Context, state ShiftState) ([]*Shift, error)
	Delete(ctx context.Context, shiftID string) error
}

// AuditSink receives transition-level audit records. Delivery is best-effort;
// callers must not roll back state changes on sink failure.
type AuditSink interface {
	RecordEvent(ctx context.Context, shiftID, workerID string, event DomainEvent) error
}

// GeofenceRegistry resolves the fences registered for a site
type GeofenceRegistry interface {
	GetGeofencesForSite(ctx context.Context, siteID string) ([]Geofence, error)
}

// CompliancePolicy evaluates a closed shift. Called only at terminal
// transitions.
type CompliancePolicy interface {
	Evaluate(shift *Shift) (isCompliant bool, score float64)
}
