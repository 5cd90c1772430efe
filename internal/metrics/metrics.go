package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Latency of outbound calls to the health data and language model services.
	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_call_duration_seconds",
			Help:    "Outbound call latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"upstream", "status"},
	)

	// Slacking verdicts produced by the activity evaluator.
	VerdictCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_verdict_count",
			Help: "Total number of activity verdicts by outcome",
		},
		[]string{"verdict"}, // verdict: slacking, on_track
	)

	// Suggestions served, including fallbacks.
	SuggestionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestion_count",
			Help: "Total number of suggestions served",
		},
		[]string{"kind", "status"}, // kind: dashboard, tip; status: success, fallback
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordUpstreamCall records the latency of one outbound call.
func RecordUpstreamCall(upstream, status string, duration time.Duration) {
	UpstreamCallDuration.WithLabelValues(upstream, status).Observe(duration.Seconds())
}

// IncrementVerdict counts one evaluated reading.
func IncrementVerdict(slacking bool) {
	label := "on_track"
	if slacking {
		label = "slacking"
	}
	VerdictCount.WithLabelValues(label).Inc()
}

// IncrementSuggestion counts one served suggestion.
func IncrementSuggestion(kind string, ok bool) {
	status := "success"
	if !ok {
		status = "fallback"
	}
	SuggestionCount.WithLabelValues(kind, status).Inc()
}

// RecordHTTPRequestDuration records the latency of one inbound request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
