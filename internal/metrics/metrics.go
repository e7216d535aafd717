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

// Business Metrics
var (
	DrawsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDrawsResolved,
			Help: HelpTextDrawsResolved,
		},
		[]string{LabelCase, LabelRarity},
	)

	DrawsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDrawsRecovered,
			Help: HelpTextDrawsRecovered,
		},
	)

	DrawFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDrawFailures,
			Help: HelpTextDrawFailures,
		},
		[]string{LabelReason},
	)

	BattlesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBattlesCompleted,
			Help: HelpTextBattlesCompleted,
		},
		[]string{LabelCase},
	)

	LedgerDebits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerDebits,
			Help: HelpTextLedgerDebits,
		},
	)

	LedgerCredits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerCredits,
			Help: HelpTextLedgerCredits,
		},
	)

	DuplicateCredits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDuplicateCredits,
			Help: HelpTextDuplicateCredits,
		},
	)

	InsufficientFunds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameInsufficientFunds,
			Help: HelpTextInsufficientFunds,
		},
	)

	PayoutCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePayoutCents,
			Help: HelpTextPayoutCents,
		},
	)

	SSESubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameSSESubscribers,
			Help: HelpTextSSESubscribers,
		},
	)
)
