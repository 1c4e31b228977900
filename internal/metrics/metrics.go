package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Wheel Metrics
var (
	SpinsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinsIssued,
			Help: HelpTextSpinsIssued,
		},
		[]string{LabelTrigger, LabelRarity},
	)

	SpinsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinsRejected,
			Help: HelpTextSpinsRejected,
		},
		[]string{LabelTrigger, LabelReason},
	)

	SpinsClaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpinsClaimed,
			Help: HelpTextSpinsClaimed,
		},
		[]string{LabelCurrency},
	)

	RewardsPaid = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardsPaid,
			Help: HelpTextRewardsPaid,
		},
		[]string{LabelCurrency},
	)

	UnclaimedSpins = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameUnclaimedSpins,
			Help: HelpTextUnclaimedSpins,
		},
	)

	ConfigUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConfigUpdates,
			Help: HelpTextConfigUpdates,
		},
		[]string{LabelValid},
	)

	ConfigIssues = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameConfigIssues,
			Help: HelpTextConfigIssues,
		},
	)

	ThresholdSpinsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameThresholdSpinsAwarded,
			Help: HelpTextThresholdSpinsAwarded,
		},
	)

	RandomRolls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRandomRolls,
			Help: HelpTextRandomRolls,
		},
		[]string{LabelOutcome},
	)
)
