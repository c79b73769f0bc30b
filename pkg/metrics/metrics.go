// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks local dashboard HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_request_duration_seconds",
			Help:    "Local dashboard HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total local dashboard HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Total local dashboard HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// APICallDuration tracks calls to the remote agent API.
	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_api_call_duration_seconds",
			Help:    "Remote agent API call duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation", "result"},
	)

	// APICallsTotal tracks total calls to the remote agent API.
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_api_calls_total",
			Help: "Total remote agent API calls",
		},
		[]string{"operation", "result"},
	)

	// ValidationFailuresTotal tracks calls blocked by local validation.
	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_validation_failures_total",
			Help: "Widget actions rejected before any request was made",
		},
		[]string{"widget"},
	)

	// ActivityEventsTotal tracks activity events published to NATS.
	ActivityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_activity_events_total",
			Help: "Activity events published",
		},
		[]string{"type", "result"},
	)

	// SSEConnectionsActive tracks open activity stream connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_sse_connections_active",
			Help: "Number of open activity stream connections",
		},
	)
)

// RecordRequest records metrics for a local HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordAPICall records metrics for a remote API call. result is one of
// "2xx", "3xx", "4xx", "5xx" or "error".
func RecordAPICall(operation, result string, duration float64) {
	APICallDuration.WithLabelValues(operation, result).Observe(duration)
	APICallsTotal.WithLabelValues(operation, result).Inc()
}

// StatusClass buckets an HTTP status code into its class label.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "error"
	}
}

// RecordValidationFailure counts a widget action blocked locally.
func RecordValidationFailure(widget string) {
	ValidationFailuresTotal.WithLabelValues(widget).Inc()
}

// RecordActivityEvent counts an activity event publication attempt.
func RecordActivityEvent(eventType, result string) {
	ActivityEventsTotal.WithLabelValues(eventType, result).Inc()
}

// IncrementSSEConnections increments the active SSE connections gauge.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connections gauge.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
