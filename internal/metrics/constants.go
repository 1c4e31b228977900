package metrics

// ============================================================================
// Metric Names
// ============================================================================

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

// Wheel metric names
const (
	MetricNameSpinsIssued           = "wheel_spins_issued_total"
	MetricNameSpinsRejected         = "wheel_spins_rejected_total"
	MetricNameSpinsClaimed          = "wheel_spins_claimed_total"
	MetricNameRewardsPaid           = "wheel_rewards_paid_total"
	MetricNameUnclaimedSpins        = "wheel_unclaimed_spins"
	MetricNameConfigUpdates         = "wheel_config_updates_total"
	MetricNameConfigIssues          = "wheel_config_validation_issues"
	MetricNameThresholdSpinsAwarded = "wheel_threshold_spins_awarded_total"
	MetricNameRandomRolls           = "wheel_random_trigger_rolls_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

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

// Wheel metric help text
const (
	HelpTextSpinsIssued           = "Total number of spin outcomes issued"
	HelpTextSpinsRejected         = "Total number of spin requests rejected"
	HelpTextSpinsClaimed          = "Total number of spin outcomes claimed"
	HelpTextRewardsPaid           = "Total reward amount paid out"
	HelpTextUnclaimedSpins        = "Number of issued spin outcomes not yet claimed"
	HelpTextConfigUpdates         = "Total number of wheel config saves"
	HelpTextConfigIssues          = "Validation issues of the current wheel config"
	HelpTextThresholdSpinsAwarded = "Total number of spins awarded by spend thresholds"
	HelpTextRandomRolls           = "Total number of random trigger rolls"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelTrigger  = "trigger"
	LabelRarity   = "rarity"
	LabelCurrency = "currency"
	LabelReason   = "reason"
	LabelValid    = "valid"
	LabelOutcome  = "outcome"
)

// Label values
const (
	OutcomeGranted = "granted"
	OutcomeDenied  = "denied"
	PathUnmatched  = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets are the request duration buckets in seconds
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgMetricsRecorded     = "Metrics recorded for event"
	LogMsgEventPayloadInvalid = "Event payload could not be decoded for metrics"
)
