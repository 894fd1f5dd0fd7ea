// Package metrics defines the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

var (
	contactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome (success, error, invalid, in_flight, rate_limited)",
		},
		[]string{"outcome"},
	)

	profileFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_fetch_total",
			Help:      "Upstream profile lookups by source and result",
		},
		[]string{"source", "result"},
	)

	imageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_fallback_total",
			Help:      "Project images served, by the step of the fallback chain that produced them",
		},
		[]string{"source"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

// RecordContactSubmission counts one contact form outcome.
func RecordContactSubmission(outcome string) {
	contactSubmissions.WithLabelValues(outcome).Inc()
}

// RecordProfileFetch counts one upstream lookup.
func RecordProfileFetch(source, result string) {
	profileFetches.WithLabelValues(source, result).Inc()
}

// RecordImageFallback counts a served project image.
func RecordImageFallback(source string) {
	imageFallbacks.WithLabelValues(source).Inc()
}

// ObserveRequest records the latency of a finished request.
func ObserveRequest(route, method, status string, seconds float64) {
	requestDuration.WithLabelValues(route, method, status).Observe(seconds)
}
