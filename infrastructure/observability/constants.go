package observability

// Metric name prefixes
const (
	MetricPrefix = "lottogen"
)

// Metric names
const (
	// Archive metrics
	ArchiveFetchesTotal  = MetricPrefix + ".archive.fetches_total"
	ArchiveFetchDuration = MetricPrefix + ".archive.fetch_duration"
	ArchiveDrawsLoaded   = MetricPrefix + ".archive.draws_loaded"

	// Generation metrics
	GenerationRunsTotal   = MetricPrefix + ".generation.runs_total"
	GenerationDuration    = MetricPrefix + ".generation.duration"
	TicketsGeneratedTotal = MetricPrefix + ".generation.tickets_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// HTTP metrics
	HTTPRequestsTotal = MetricPrefix + ".http.requests_total"
)

// Label keys
const (
	LabelSource    = "source"
	LabelOutcome   = "outcome"
	LabelEventType = "event_type"
	LabelPartial   = "partial"
	LabelMethod    = "method"
	LabelRoute     = "route"
	LabelStatus    = "status"
)

// Generation outcomes
const (
	GenerationOutcomeComplete = "complete"
	GenerationOutcomePartial  = "partial"
	GenerationOutcomeFailed   = "failed"
)
