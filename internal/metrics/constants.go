package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameDrawsResolved     = "draws_resolved_total"
	MetricNameDrawsRecovered    = "draws_recovered_total"
	MetricNameDrawFailures      = "draw_failures_total"
	MetricNameBattlesCompleted  = "battles_completed_total"
	MetricNameLedgerDebits      = "ledger_debits_total"
	MetricNameLedgerCredits     = "ledger_credits_total"
	MetricNameDuplicateCredits  = "ledger_duplicate_credits_total"
	MetricNameInsufficientFunds = "ledger_insufficient_funds_total"
	MetricNamePayoutCents       = "payout_cents_total"
	MetricNameSSESubscribers    = "sse_subscribers"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextDrawsResolved     = "Total number of draws resolved"
	HelpTextDrawsRecovered    = "Total number of stalled draws completed by recovery"
	HelpTextDrawFailures      = "Total number of draw attempts that failed"
	HelpTextBattlesCompleted  = "Total number of battles completed"
	HelpTextLedgerDebits      = "Total number of ledger debits applied"
	HelpTextLedgerCredits     = "Total number of ledger credits applied"
	HelpTextDuplicateCredits  = "Total number of credits suppressed by idempotency"
	HelpTextInsufficientFunds = "Total number of debits rejected for insufficient funds"
	HelpTextPayoutCents       = "Total cents paid out across all draws"
	HelpTextSSESubscribers    = "Current number of live feed subscribers"
)

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelCase   = "case_id"
	LabelRarity = "rarity"
	LabelReason = "reason"
)

// HTTPLatencyBuckets covers the expected request latency range.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
