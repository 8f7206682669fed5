package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	evaluationsTotal      *prometheus.CounterVec
	evaluationsRejected   *prometheus.CounterVec
	sessionStoreErrors    *prometheus.CounterVec
	evaluationEventsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluations_total",
			Help: "Completed code evaluations by verdict.",
		}, []string{"verdict", "challenge"})

		evaluationsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluations_rejected_total",
			Help: "Submissions rejected before evaluation, by reason.",
		}, []string{"reason"})

		sessionStoreErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_store_errors_total",
			Help: "Session store failures by operation.",
		}, []string{"operation"})

		evaluationEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evaluation_events_published_total",
			Help: "Evaluation events published to the message bus, by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(apiRequestsTotal, apiLatencySeconds, apiErrorsTotal, evaluationsTotal, evaluationsRejected, sessionStoreErrors, evaluationEventsTotal)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// Evaluations exposes the counter of completed evaluations.
func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// EvaluationsRejected exposes the counter of rejected submissions.
func EvaluationsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsRejected
}

// SessionStoreErrors exposes the counter of session store failures.
func SessionStoreErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return sessionStoreErrors
}

// EvaluationEvents exposes the counter of published evaluation events.
func EvaluationEvents() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationEventsTotal
}
