package cloudevents

// CloudEvents extension attribute names for FieldSync context
const (
	// Business context extensions (used in CloudEvents and message headers)
	ExtCorrelationID = "fscorrelationid"
	ExtWorkerID      = "fsworkerid"
	ExtSiteID        = "fssiteid"
)

// HTTP header names for FieldSync context
const (
	HeaderWorkerID = "X-FieldSync-Worker-ID"
	HeaderSiteID   = "X-FieldSync-Site-ID"
)

// WithWorker sets the worker extension and returns the event
func (e *FieldSyncCloudEvent) WithWorker(workerID string) *FieldSyncCloudEvent {
	e.WorkerID = workerID
	return e
}

// WithSite sets the site extension and returns the event
func (e *FieldSyncCloudEvent) WithSite(siteID string) *FieldSyncCloudEvent {
	e.SiteID = siteID
	return e
}

// WithCorrelation sets the correlation extension and returns the event
func (e *FieldSyncCloudEvent) WithCorrelation(correlationID string) *FieldSyncCloudEvent {
	e.CorrelationID = correlationID
	return e
}
